package controller

import (
	"fmt"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
)

// emitGroupEvent starts a new DKG round for the group: it bumps the global
// and the group epoch, forgets the previous round, replaces the group's
// coordinator and publishes the task for the new round.
func (tx *tx) emitGroupEvent(index uint64) error {
	e := tx.e
	g := tx.mutGroup(index)

	e.globalEpoch++
	g.Epoch++
	g.ResetRound()
	tx.retireCoordinator(index)

	params := module.PhaseCoordinatorParams{
		GroupIndex:    index,
		GroupEpoch:    g.Epoch,
		GlobalEpoch:   e.globalEpoch,
		Threshold:     g.Threshold,
		PhaseDuration: e.params.DKGPhaseDuration,
		StartBlock:    tx.height,
	}
	c, err := e.factory.Create(params)
	if err != nil {
		return fmt.Errorf("could not create coordinator for group %d epoch %d: %w", index, g.Epoch, err)
	}

	members := g.Members.Addresses()
	keys := make([][]byte, 0, len(members))
	for _, addr := range members {
		keys = append(keys, tx.node(addr).DKGPublicKey)
	}
	c.Initialize(members, keys)
	tx.setCoordinator(index, c)

	task := randcast.DKGTask{
		GroupIndex:            index,
		Epoch:                 g.Epoch,
		Size:                  g.Size,
		Threshold:             g.Threshold,
		Members:               members,
		AssignmentBlockHeight: tx.height,
		CoordinatorAddress:    c.Address(),
	}
	globalEpoch := e.globalEpoch
	tx.effect(func() {
		e.log.Info().
			Uint64("group_index", task.GroupIndex).
			Uint64("group_epoch", task.Epoch).
			Uint64("global_epoch", globalEpoch).
			Int("size", task.Size).
			Int("threshold", task.Threshold).
			Hex("coordinator", task.CoordinatorAddress.Bytes()).
			Msg("dkg task published")
		e.metrics.GlobalEpoch(globalEpoch)
		e.metrics.TaskPublished(task.Size)
	})
	tx.effect(e.publish(func(c Consumer) {
		c.DKGTaskPublished(task)
	}))
	return nil
}
