package controller

import (
	"github.com/arpa-network/randcast-controller/model/randcast"
)

// groupOf returns the index of the group the node is a member of.
func (tx *tx) groupOf(addr randcast.Address) (uint64, bool) {
	for _, g := range tx.e.groups {
		if g.IsMember(addr) {
			return g.Index, true
		}
	}
	return 0, false
}

// addToGroup seats the node in the group. If emit is set and the group is
// viable afterwards, a new DKG round is started for it.
func (tx *tx) addToGroup(addr randcast.Address, index uint64, emit bool) error {
	g := tx.mutGroup(index)
	g.Members.Add(addr)
	g.Size++
	g.Threshold = randcast.ComputeThreshold(g.Size, tx.e.params.DefaultMinimumThreshold)

	if emit && g.Size >= tx.e.params.MinimumGroupSize {
		return tx.emitGroupEvent(index)
	}
	return nil
}

// removeFromGroup unseats the node from the group. It returns true if the
// group is left non-empty but below the viable size, in which case the caller
// must redistribute it. If emit is set and the group is still viable, a new
// DKG round is started for it.
func (tx *tx) removeFromGroup(addr randcast.Address, index uint64, emit bool) (bool, error) {
	g := tx.mutGroup(index)
	if _, ok := g.Members.Remove(addr); !ok {
		return false, nil
	}
	g.Size--

	if g.Size == 0 {
		g.Members.Reset()
		g.Threshold = 0
		return false, nil
	}
	g.Threshold = randcast.ComputeThreshold(g.Size, tx.e.params.DefaultMinimumThreshold)

	if g.Size < tx.e.params.MinimumGroupSize {
		return true, nil
	}
	if emit {
		return false, tx.emitGroupEvent(index)
	}
	return false, nil
}
