package controller

import (
	"fmt"

	"github.com/arpa-network/randcast-controller/model/randcast"
)

// Register creates a node with the initial stake and places it into a group.
//
// Expected errors:
//   - ErrInvalidAddress if addr is the zero address
//   - ErrAlreadyRegistered if a node with the address exists, even a frozen one
func (e *Engine) Register(addr randcast.Address, dkgPublicKey []byte) error {
	return e.run("register", func(tx *tx) error {
		if addr == randcast.ZeroAddress {
			return fmt.Errorf("could not register node: %w", ErrInvalidAddress)
		}
		if tx.node(addr).Registered() {
			return fmt.Errorf("could not register node %s: %w", addr.Hex(), ErrAlreadyRegistered)
		}

		key := make([]byte, len(dkgPublicKey))
		copy(key, dkgPublicKey)
		tx.createNode(&randcast.Node{
			Address:      addr,
			DKGPublicKey: key,
			Active:       true,
			Stake:        e.params.NodeStakingAmount,
		})
		tx.effect(func() {
			e.log.Info().Hex("node", addr.Bytes()).Msg("node registered")
			e.metrics.NodeRegistered()
		})

		return tx.nodeJoin(addr)
	})
}

// AddStake increases the stake of a registered node.
//
// Expected errors:
//   - ErrNotRegistered if the node is unknown
func (e *Engine) AddStake(addr randcast.Address, amount uint64) error {
	return e.run("stake", func(tx *tx) error {
		if !tx.node(addr).Registered() {
			return fmt.Errorf("could not stake for %s: %w", addr.Hex(), ErrNotRegistered)
		}
		n := tx.mutNode(addr)
		n.Stake += amount
		return nil
	})
}

// Unstake decreases the stake of a registered node. An active node must keep
// at least the minimum stake.
//
// Expected errors:
//   - ErrNotRegistered if the node is unknown
//   - ErrBelowMinimumStake if the stake would go negative, or below the
//     minimum while the node is active
func (e *Engine) Unstake(addr randcast.Address, amount uint64) error {
	return e.run("unstake", func(tx *tx) error {
		n := tx.node(addr)
		if !n.Registered() {
			return fmt.Errorf("could not unstake for %s: %w", addr.Hex(), ErrNotRegistered)
		}
		if amount > n.Stake {
			return fmt.Errorf("could not unstake %d of %d: %w", amount, n.Stake, ErrBelowMinimumStake)
		}
		if n.Active && n.Stake-amount < e.params.MinimumStake {
			return fmt.Errorf("could not unstake %d, active node must keep %d: %w", amount, e.params.MinimumStake, ErrBelowMinimumStake)
		}
		tx.mutNode(addr).Stake -= amount
		return nil
	})
}

// Quit removes the node from its group, freezes it for the quit window and
// zeroes its stake. The node record is kept.
//
// Expected errors:
//   - ErrNotRegistered if the node is unknown
func (e *Engine) Quit(addr randcast.Address) error {
	return e.run("quit", func(tx *tx) error {
		if !tx.node(addr).Registered() {
			return fmt.Errorf("could not quit %s: %w", addr.Hex(), ErrNotRegistered)
		}
		err := tx.freeze(addr, e.params.PendingBlockAfterQuit, true)
		if err != nil {
			return err
		}
		tx.mutNode(addr).Stake = 0

		tx.effect(func() {
			e.log.Info().Hex("node", addr.Bytes()).Msg("node quit")
			e.metrics.NodeQuit()
		})
		return nil
	})
}

// Activate re-activates a frozen node whose freeze window has passed and
// places it into a group.
//
// Expected errors:
//   - ErrNotRegistered if the node is unknown
//   - ErrNodeActive if the node is not frozen
//   - ErrNodeFrozen if the freeze window has not passed yet
//   - ErrBelowMinimumStake if the node's stake is below the minimum
func (e *Engine) Activate(addr randcast.Address) error {
	return e.run("activate", func(tx *tx) error {
		n := tx.node(addr)
		switch {
		case !n.Registered():
			return fmt.Errorf("could not activate %s: %w", addr.Hex(), ErrNotRegistered)
		case n.Active:
			return fmt.Errorf("could not activate %s: %w", addr.Hex(), ErrNodeActive)
		case tx.height < n.PendingUntilBlock:
			return fmt.Errorf("could not activate %s before block %d: %w", addr.Hex(), n.PendingUntilBlock, ErrNodeFrozen)
		case n.Stake < e.params.MinimumStake:
			return fmt.Errorf("could not activate %s with stake %d: %w", addr.Hex(), n.Stake, ErrBelowMinimumStake)
		}

		tx.mutNode(addr).Active = true
		tx.effect(func() {
			e.log.Info().Hex("node", addr.Bytes()).Msg("node activated")
			e.metrics.NodeActivated()
		})

		if _, ok := tx.groupOf(addr); ok {
			return nil
		}
		return tx.nodeJoin(addr)
	})
}
