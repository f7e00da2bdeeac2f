package randcast

// DKGRound describes a DKG round whose coordinator is still alive. It carries
// everything needed to re-create the coordinator after a restart.
type DKGRound struct {
	GroupIndex         uint64
	GroupEpoch         uint64
	GlobalEpoch        uint64
	Threshold          int
	PhaseDuration      uint64
	StartBlock         uint64
	CoordinatorAddress Address
	Members            AddressList
	Keys               [][]byte
}

// ControllerMeta holds the controller-wide counters.
type ControllerMeta struct {
	GlobalEpoch uint64
	// GroupCount is the number of groups ever created. Group indices are
	// assigned from it.
	GroupCount uint64
	// LastOutput is the latest randomness output, a 32 byte big-endian word.
	LastOutput [32]byte
	// Height is the block height of the latest persisted operation or
	// checkpoint. A restarted clock never resumes below it.
	Height uint64
}
