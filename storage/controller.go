package storage

import (
	"github.com/arpa-network/randcast-controller/model/randcast"
)

// Nodes persists registered nodes.
type Nodes interface {
	// BatchStore stages the node to be stored in the batch.
	BatchStore(rw ReaderBatchWriter, node *randcast.Node) error

	// ByAddress returns the node registered with the address.
	// Error returns:
	//   - ErrNotFound if no node was registered with the address
	ByAddress(addr randcast.Address) (*randcast.Node, error)

	// All returns all stored nodes ordered by address.
	All() ([]*randcast.Node, error)
}

// Groups persists groups.
type Groups interface {
	BatchStore(rw ReaderBatchWriter, group *randcast.Group) error

	// ByIndex returns the group with the given index.
	// Error returns:
	//   - ErrNotFound if no group with the index was stored
	ByIndex(index uint64) (*randcast.Group, error)

	// All returns all stored groups ordered by index.
	All() ([]*randcast.Group, error)
}

// DKGRounds persists the rounds which still have a live coordinator.
type DKGRounds interface {
	BatchStore(rw ReaderBatchWriter, round *randcast.DKGRound) error

	// BatchRemove stages the removal of the round of the group. Removing a
	// round which is not stored is not an error.
	BatchRemove(rw ReaderBatchWriter, groupIndex uint64) error

	// ByGroup returns the live round of the group.
	// Error returns:
	//   - ErrNotFound if the group has no live round
	ByGroup(groupIndex uint64) (*randcast.DKGRound, error)

	All() ([]*randcast.DKGRound, error)
}

// ControllerMeta persists the controller-wide counters.
type ControllerMeta interface {
	BatchStore(rw ReaderBatchWriter, meta *randcast.ControllerMeta) error

	// Retrieve returns the stored counters.
	// Error returns:
	//   - ErrNotFound if the controller was never persisted
	Retrieve() (*randcast.ControllerMeta, error)
}
