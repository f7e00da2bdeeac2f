package controller

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/storage"
)

// Load creates an engine persisting into stores and restores the state it
// persisted before, including the coordinators of running rounds. An empty
// database yields an engine without any node or group.
func Load(log zerolog.Logger, params Params, chain module.Chain, factory module.PhaseCoordinatorFactory, stores Stores, opts ...Option) (*Engine, error) {
	e, err := New(log, params, chain, factory, append(opts, WithStores(stores))...)
	if err != nil {
		return nil, err
	}

	meta, err := stores.Meta.Retrieve()
	if errors.Is(err, storage.ErrNotFound) {
		e.log.Info().Msg("no persisted controller state, starting empty")
		return e, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not retrieve controller meta: %w", err)
	}

	nodes, err := stores.Nodes.All()
	if err != nil {
		return nil, fmt.Errorf("could not retrieve nodes: %w", err)
	}
	for _, n := range nodes {
		e.nodes[n.Address] = n
	}

	groups, err := stores.Groups.All()
	if err != nil {
		return nil, fmt.Errorf("could not retrieve groups: %w", err)
	}
	if uint64(len(groups)) != meta.GroupCount {
		return nil, fmt.Errorf("inconsistent controller state: %d groups stored, %d expected", len(groups), meta.GroupCount)
	}
	for i, g := range groups {
		if g.Index != uint64(i) {
			return nil, fmt.Errorf("inconsistent controller state: group %d stored at position %d", g.Index, i)
		}
	}
	e.groups = groups

	rounds, err := stores.DKGRounds.All()
	if err != nil {
		return nil, fmt.Errorf("could not retrieve dkg rounds: %w", err)
	}
	for _, r := range rounds {
		c, err := factory.Restore(module.PhaseCoordinatorParams{
			GroupIndex:    r.GroupIndex,
			GroupEpoch:    r.GroupEpoch,
			GlobalEpoch:   r.GlobalEpoch,
			Threshold:     r.Threshold,
			PhaseDuration: r.PhaseDuration,
			StartBlock:    r.StartBlock,
		}, r.Members, r.Keys)
		if err != nil {
			return nil, fmt.Errorf("could not restore coordinator of group %d: %w", r.GroupIndex, err)
		}
		e.coordinators[r.GroupIndex] = c
	}

	e.globalEpoch = meta.GlobalEpoch
	e.lastOutput.Set(new(uint256.Int).SetBytes32(meta.LastOutput[:]))

	e.log.Info().
		Int("nodes", len(nodes)).
		Int("groups", len(groups)).
		Int("rounds", len(rounds)).
		Uint64("global_epoch", meta.GlobalEpoch).
		Msg("controller state restored")
	return e, nil
}
