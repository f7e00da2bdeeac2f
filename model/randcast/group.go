package randcast

import (
	"fmt"
)

// Group is a quorum of nodes jointly running DKG rounds.
//
// Index is assigned monotonically and never reused. Epoch versions the
// membership: every membership change starts a new DKG round in a new epoch.
type Group struct {
	Index     uint64
	Epoch     uint64
	Size      int
	Threshold int
	Members   MemberSet
	// Committers are sampled from the qualified members once consensus is
	// reached in the current epoch.
	Committers       AddressList
	CommitCaches     []CommitCache
	ConsensusReached bool
	PublicKey        []byte
}

// NewGroup returns an empty group with the given index.
func NewGroup(index uint64) *Group {
	return &Group{Index: index}
}

// ComputeThreshold returns the number of commitments required for a group of
// the given size: a strict majority, but never less than floor. An empty
// group has threshold 0.
func ComputeThreshold(size int, floor int) int {
	if size <= 0 {
		return 0
	}
	t := size/2 + 1
	if t < floor {
		return floor
	}
	return t
}

// IsMember returns true if the node is seated in the group.
func (g *Group) IsMember(addr Address) bool {
	return g.Members.Contains(addr)
}

// HasCommitted returns true if the node already committed in the current
// epoch, either through a recorded vote or a recorded partial public key.
func (g *Group) HasCommitted(addr Address) bool {
	for _, cache := range g.CommitCaches {
		if cache.Voters.Contains(addr) {
			return true
		}
	}
	slot, ok := g.Members.SlotOf(addr)
	if !ok {
		return false
	}
	return len(g.Members.Slots[slot].Member.PartialPublicKey) > 0
}

// ResetRound forgets everything collected for the current DKG round.
func (g *Group) ResetRound() {
	g.Committers = nil
	g.CommitCaches = nil
	g.ConsensusReached = false
	g.Members.ClearPartialPublicKeys()
}

// Copy returns a deep copy of the group.
func (g *Group) Copy() *Group {
	dup := &Group{
		Index:            g.Index,
		Epoch:            g.Epoch,
		Size:             g.Size,
		Threshold:        g.Threshold,
		Members:          g.Members.Copy(),
		Committers:       g.Committers.Copy(),
		ConsensusReached: g.ConsensusReached,
		PublicKey:        copyBytes(g.PublicKey),
	}
	if g.CommitCaches != nil {
		dup.CommitCaches = make([]CommitCache, len(g.CommitCaches))
		for i, c := range g.CommitCaches {
			dup.CommitCaches[i] = c.Copy()
		}
	}
	return dup
}

func (g *Group) String() string {
	return fmt.Sprintf("group(%d, epoch=%d, size=%d, threshold=%d, consensus=%t)", g.Index, g.Epoch, g.Size, g.Threshold, g.ConsensusReached)
}
