package randcast

// DKGTask is published whenever a group's membership changes. Off-chain nodes
// start a new DKG round on it.
type DKGTask struct {
	GroupIndex            uint64      `json:"group_index"`
	Epoch                 uint64      `json:"epoch"`
	Size                  int         `json:"size"`
	Threshold             int         `json:"threshold"`
	Members               AddressList `json:"members"`
	AssignmentBlockHeight uint64      `json:"assignment_block_height"`
	CoordinatorAddress    Address     `json:"coordinator_address"`
}
