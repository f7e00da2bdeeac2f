package controller

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/holiman/uint256"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
)

// All queries return copies; they never observe an operation in progress.

// Node returns the node registered with the address.
func (e *Engine) Node(addr randcast.Address) (*randcast.Node, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	n := e.nodes[addr]
	if !n.Registered() {
		return nil, fmt.Errorf("could not get node %s: %w", addr.Hex(), ErrNotRegistered)
	}
	return n.Copy(), nil
}

// Nodes returns all registered nodes ordered by address.
func (e *Engine) Nodes() []*randcast.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()

	nodes := make([]*randcast.Node, 0, len(e.nodes))
	for _, n := range e.nodes {
		nodes = append(nodes, n.Copy())
	}
	sort.Slice(nodes, func(i, j int) bool {
		return bytes.Compare(nodes[i].Address.Bytes(), nodes[j].Address.Bytes()) < 0
	})
	return nodes
}

// StakeOf returns the stake and the accumulated reward of the node.
func (e *Engine) StakeOf(addr randcast.Address) (uint64, uint64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	n := e.nodes[addr]
	if !n.Registered() {
		return 0, 0, fmt.Errorf("could not get stake of %s: %w", addr.Hex(), ErrNotRegistered)
	}
	return n.Stake, n.Reward, nil
}

// Group returns the group with the given index.
func (e *Engine) Group(index uint64) (*randcast.Group, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if index >= uint64(len(e.groups)) {
		return nil, fmt.Errorf("could not get group %d: %w", index, ErrUnknownGroup)
	}
	return e.groups[index].Copy(), nil
}

// Groups returns all groups ordered by index.
func (e *Engine) Groups() []*randcast.Group {
	e.mu.RLock()
	defer e.mu.RUnlock()

	groups := make([]*randcast.Group, 0, len(e.groups))
	for _, g := range e.groups {
		groups = append(groups, g.Copy())
	}
	return groups
}

// Member returns the member seated in the given slot of the group.
func (e *Engine) Member(groupIndex uint64, slot int) (randcast.Member, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if groupIndex >= uint64(len(e.groups)) {
		return randcast.Member{}, fmt.Errorf("could not get member of group %d: %w", groupIndex, ErrUnknownGroup)
	}
	m, ok := e.groups[groupIndex].Members.At(slot)
	if !ok {
		return randcast.Member{}, fmt.Errorf("could not get member %d of group %d: %w", slot, groupIndex, ErrUnknownMember)
	}
	key := make([]byte, len(m.PartialPublicKey))
	copy(key, m.PartialPublicKey)
	return randcast.Member{Address: m.Address, PartialPublicKey: key}, nil
}

// Coordinator returns the coordinator of the group's current round.
//
// Expected errors:
//   - ErrUnknownGroup if the group does not exist
//   - ErrNoActiveRound if the group has no coordinator
func (e *Engine) Coordinator(groupIndex uint64) (module.PhaseCoordinator, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if groupIndex >= uint64(len(e.groups)) {
		return nil, fmt.Errorf("could not get coordinator of group %d: %w", groupIndex, ErrUnknownGroup)
	}
	c, ok := e.coordinators[groupIndex]
	if !ok {
		return nil, fmt.Errorf("could not get coordinator of group %d: %w", groupIndex, ErrNoActiveRound)
	}
	return c, nil
}

// CoordinatorAddress returns the address of the coordinator of the group's
// current round.
func (e *Engine) CoordinatorAddress(groupIndex uint64) (randcast.Address, error) {
	c, err := e.Coordinator(groupIndex)
	if err != nil {
		return randcast.ZeroAddress, err
	}
	return c.Address(), nil
}

// GlobalEpoch returns the number of DKG rounds started so far.
func (e *Engine) GlobalEpoch() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.globalEpoch
}

// LastOutput returns the latest randomness output.
func (e *Engine) LastOutput() *uint256.Int {
	return e.lastOutput.Output()
}
