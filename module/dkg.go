package module

import (
	"github.com/arpa-network/randcast-controller/model/randcast"
)

// PhaseEnded is reported by PhaseCoordinator.InPhase once the DKG round is over,
// or before it was initialized.
const PhaseEnded = -1

// PhaseCoordinatorParams are the parameters a coordinator is created with.
// They are sufficient to restore a coordinator after a restart.
type PhaseCoordinatorParams struct {
	GroupIndex uint64
	GroupEpoch uint64
	// GlobalEpoch is the controller epoch the round was started in.
	GlobalEpoch uint64
	Threshold   int
	// PhaseDuration is the number of blocks each phase lasts.
	PhaseDuration uint64
	// StartBlock is the block height the coordinator was created at.
	StartBlock uint64
}

// PhaseCoordinator tracks the timing of one DKG round of one group. A new
// coordinator is created for every group epoch.
type PhaseCoordinator interface {

	// Address returns the identity off-chain nodes use to reach the
	// coordinator.
	Address() randcast.Address

	// Params returns the parameters the coordinator was created with.
	Params() PhaseCoordinatorParams

	// Initialize starts the round with the given participants and their
	// DKG public keys. Only the first call has an effect.
	Initialize(members randcast.AddressList, keys [][]byte)

	// InPhase returns the current phase, counting from 1, or PhaseEnded.
	InPhase() int

	// Participants returns the members the round was initialized with.
	Participants() randcast.AddressList

	// DKGKeys returns the threshold and the DKG public keys of the
	// participants.
	DKGKeys() (int, [][]byte)

	// SelfDestruct terminates the round. The coordinator reports PhaseEnded
	// afterwards.
	SelfDestruct()
}

// PhaseCoordinatorFactory creates coordinators for new DKG rounds.
type PhaseCoordinatorFactory interface {
	// Create returns a coordinator which is not initialized yet.
	Create(params PhaseCoordinatorParams) (PhaseCoordinator, error)

	// Restore returns a coordinator of a round that was initialized with
	// the given members and keys at params.StartBlock.
	Restore(params PhaseCoordinatorParams, members randcast.AddressList, keys [][]byte) (PhaseCoordinator, error)
}
