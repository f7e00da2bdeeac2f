package controller

import (
	"github.com/arpa-network/randcast-controller/model/randcast"
)

// Consumer defines the events the controller emits. They are delivered in
// order, after the operation that caused them was committed.
// Consumer implementations must be non-blocking and must not call
// state-changing operations of the engine synchronously.
type Consumer interface {

	// DKGTaskPublished is called whenever a group starts a new DKG round.
	DKGTaskPublished(task randcast.DKGTask)

	// GroupConsensusReached is called when the members of a group agreed on
	// the group public key of the current epoch.
	GroupConsensusReached(groupIndex uint64, groupEpoch uint64, publicKey []byte, committers randcast.AddressList)

	// GroupVoided is called when a round ended without any majority and the
	// group was dissolved.
	GroupVoided(groupIndex uint64, groupEpoch uint64)

	// NodeSlashed is called when a penalty was applied to the stake of a node.
	NodeSlashed(node randcast.Address, penalty uint64, stake uint64)

	// NodeFrozen is called when a node became inactive.
	NodeFrozen(node randcast.Address, pendingUntilBlock uint64)
}
