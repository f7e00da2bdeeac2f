package controller

import (
	"fmt"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module/sampler"
)

// Rebalance moves members from the larger to the smaller of the two groups
// until their sizes differ by at most one. It returns false if nothing was
// moved, which is the case for an already balanced pair or if the larger
// group would drop below the viable size.
//
// Expected errors:
//   - ErrUnknownGroup if one of the groups does not exist
func (e *Engine) Rebalance(a, b uint64) (bool, error) {
	var rebalanced bool
	err := e.run("rebalance", func(tx *tx) error {
		for _, index := range []uint64{a, b} {
			if index >= uint64(len(e.groups)) {
				return fmt.Errorf("could not rebalance group %d: %w", index, ErrUnknownGroup)
			}
		}
		var err error
		rebalanced, err = tx.rebalance(a, b)
		return err
	})
	return rebalanced, err
}

// findOrCreateTargetGroup returns the group a joining node is placed into.
// It creates a new group while all existing groups have consensus and there
// are fewer than the ideal number of them, or once all groups are full. The
// second return value is true if the new group must be filled by rebalancing.
func (tx *tx) findOrCreateTargetGroup() (uint64, bool) {
	e := tx.e
	if len(e.groups) == 0 {
		return tx.createGroup().Index, false
	}

	target := e.groups[0]
	valid := 0
	for _, g := range e.groups {
		if g.Size < target.Size {
			target = g
		}
		if g.ConsensusReached {
			valid++
		}
	}

	if (valid < e.params.IdealNumberOfGroups && valid == len(e.groups)) || target.Size >= e.params.GroupMaxCapacity {
		return tx.createGroup().Index, true
	}
	return target.Index, false
}

// rebalance moves sampled members of the larger group into the smaller one
// and starts new DKG rounds for both.
func (tx *tx) rebalance(a, b uint64) (bool, error) {
	e := tx.e
	if e.groups[a].Size < e.groups[b].Size {
		a, b = b, a
	}
	from, to := e.groups[a], e.groups[b]

	moveCount := from.Size - (from.Size+to.Size)/2
	if moveCount == 0 || from.Size-moveCount < e.params.MinimumGroupSize {
		return false, nil
	}

	slots, err := sampler.SampleWithoutReplacement(tx.seed, from.Members.OccupiedSlots(), moveCount)
	if err != nil {
		return false, fmt.Errorf("could not sample members of group %d: %w", a, err)
	}
	moved := make(randcast.AddressList, 0, len(slots))
	for _, slot := range slots {
		m, _ := from.Members.At(slot)
		moved = append(moved, m.Address)
	}

	for _, addr := range moved {
		_, err = tx.removeFromGroup(addr, a, false)
		if err != nil {
			return false, err
		}
		err = tx.addToGroup(addr, b, false)
		if err != nil {
			return false, err
		}
	}

	err = tx.emitGroupEvent(a)
	if err != nil {
		return false, err
	}
	err = tx.emitGroupEvent(b)
	if err != nil {
		return false, err
	}

	tx.effect(func() {
		e.log.Info().
			Uint64("from_group", a).
			Uint64("to_group", b).
			Int("moved", len(moved)).
			Msg("groups rebalanced")
		e.metrics.Rebalanced(len(moved))
	})
	return true, nil
}

// nodeJoin places the node into a group. If a new group was created for it,
// the new group is filled by rebalancing with the first group that allows it.
func (tx *tx) nodeJoin(addr randcast.Address) error {
	target, needsRebalance := tx.findOrCreateTargetGroup()
	err := tx.addToGroup(addr, target, true)
	if err != nil {
		return err
	}
	if !needsRebalance {
		return nil
	}

	for i := range tx.e.groups {
		other := uint64(i)
		if other == target {
			continue
		}
		rebalanced, err := tx.rebalance(other, target)
		if err != nil {
			return err
		}
		if rebalanced {
			return nil
		}
	}
	return nil
}

// arrangeMembersInGroup redistributes a group which fell below the viable
// size. It first tries to rebalance with every other group. If none allows
// it, the members are moved one by one into the group a joining node would
// be placed in, until that group is the drained one.
func (tx *tx) arrangeMembersInGroup(index uint64) error {
	e := tx.e
	if e.groups[index].Size == 0 {
		return nil
	}

	for i := range e.groups {
		other := uint64(i)
		if other == index {
			continue
		}
		rebalanced, err := tx.rebalance(other, index)
		if err != nil {
			return err
		}
		if rebalanced {
			return nil
		}
	}

	g := tx.mutGroup(index)
	g.ConsensusReached = false

	var involved []uint64
	for _, addr := range g.Members.Addresses() {
		target, _ := tx.findOrCreateTargetGroup()
		if target == index {
			break
		}
		_, err := tx.removeFromGroup(addr, index, false)
		if err != nil {
			return err
		}
		err = tx.addToGroup(addr, target, false)
		if err != nil {
			return err
		}
		if !containsIndex(involved, target) {
			involved = append(involved, target)
		}
	}

	// The drained group itself gets a new round if it is still viable, so it
	// does not stay idle without a coordinator.
	if !containsIndex(involved, index) {
		involved = append(involved, index)
	}
	for _, i := range involved {
		if e.groups[i].Size >= e.params.MinimumGroupSize {
			err := tx.emitGroupEvent(i)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func containsIndex(indices []uint64, index uint64) bool {
	for _, i := range indices {
		if i == index {
			return true
		}
	}
	return false
}
