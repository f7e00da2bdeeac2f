package controller

import (
	"fmt"

	"github.com/arpa-network/randcast-controller/model/randcast"
)

// Slash subtracts the penalty from the stake of the node, clamping at zero.
// The node is frozen if its stake drops below the minimum or freezeBlocks is
// positive. With cascade set, a frozen node is also removed from its group.
//
// Expected errors:
//   - ErrNotRegistered if the node is unknown
func (e *Engine) Slash(addr randcast.Address, penalty uint64, freezeBlocks uint64, cascade bool) error {
	return e.run("slash", func(tx *tx) error {
		if !tx.node(addr).Registered() {
			return fmt.Errorf("could not slash %s: %w", addr.Hex(), ErrNotRegistered)
		}
		return tx.slash(addr, penalty, freezeBlocks, cascade)
	})
}

func (tx *tx) slash(addr randcast.Address, penalty uint64, freezeBlocks uint64, cascade bool) error {
	e := tx.e
	n := tx.mutNode(addr)
	if penalty > n.Stake {
		n.Stake = 0
	} else {
		n.Stake -= penalty
	}

	stake := n.Stake
	tx.effect(func() {
		e.log.Warn().
			Hex("node", addr.Bytes()).
			Uint64("penalty", penalty).
			Uint64("stake", stake).
			Msg("node slashed")
		e.metrics.NodeSlashed(penalty)
	})
	tx.effect(e.publish(func(c Consumer) {
		c.NodeSlashed(addr, penalty, stake)
	}))

	if stake < e.params.MinimumStake || freezeBlocks > 0 {
		return tx.freeze(addr, freezeBlocks, cascade)
	}
	return nil
}

// freeze marks the node inactive until freezeBlocks after the current
// height, or extends a freeze window which has not passed yet.
func (tx *tx) freeze(addr randcast.Address, blocks uint64, cascade bool) error {
	e := tx.e
	if cascade {
		if index, ok := tx.groupOf(addr); ok {
			needsArrange, err := tx.removeFromGroup(addr, index, true)
			if err != nil {
				return err
			}
			if needsArrange {
				err = tx.arrangeMembersInGroup(index)
				if err != nil {
					return err
				}
			}
		}
	}

	n := tx.mutNode(addr)
	n.Active = false
	if n.PendingUntilBlock > tx.height {
		n.PendingUntilBlock += blocks
	} else {
		n.PendingUntilBlock = tx.height + blocks
	}

	until := n.PendingUntilBlock
	tx.effect(func() {
		e.log.Warn().
			Hex("node", addr.Bytes()).
			Uint64("pending_until_block", until).
			Msg("node frozen")
		e.metrics.NodeFrozen()
	})
	tx.effect(e.publish(func(c Consumer) {
		c.NodeFrozen(addr, until)
	}))
	return nil
}
