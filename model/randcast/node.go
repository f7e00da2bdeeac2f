package randcast

import (
	"fmt"
)

// Node is a registered randomness provider. Nodes are never deleted: a node
// that quit or was slashed to zero keeps its record so it cannot register twice.
type Node struct {
	Address      Address
	DKGPublicKey []byte
	// Active is false while the node is frozen.
	Active bool
	// PendingUntilBlock is the block height before which the node must not be
	// treated as active, regardless of Active.
	PendingUntilBlock uint64
	Stake             uint64
	// Reward accumulates the rewards granted for protocol housekeeping.
	Reward uint64
}

// Registered returns true if the record belongs to a registered node.
func (n *Node) Registered() bool {
	return n != nil && n.Address != ZeroAddress
}

// Copy returns a deep copy of the node.
func (n *Node) Copy() *Node {
	dup := *n
	dup.DKGPublicKey = copyBytes(n.DKGPublicKey)
	return &dup
}

func (n *Node) String() string {
	return fmt.Sprintf("node(%s, active=%t, stake=%d, pending_until=%d)", n.Address.Hex(), n.Active, n.Stake, n.PendingUntilBlock)
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	dup := make([]byte, len(b))
	copy(dup, b)
	return dup
}
