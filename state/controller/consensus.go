package controller

import (
	"fmt"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/module/sampler"
	"github.com/arpa-network/randcast-controller/utils/logging"
)

// CommitParams is the DKG outcome a member commits.
type CommitParams struct {
	GroupIndex        uint64
	GroupEpoch        uint64
	PublicKey         []byte
	PartialPublicKey  []byte
	DisqualifiedNodes randcast.AddressList
}

// CommitDKG records the DKG outcome committed by a member of the group. Once
// a strict majority of identical outcomes, excluding the nodes it
// disqualifies, reaches the group threshold, the group adopts its public key,
// the disqualified nodes are removed and slashed and the committers are
// sampled. Later commitments of the epoch only record partial public keys.
//
// Expected errors:
//   - ErrUnknownGroup if the group does not exist
//   - ErrNoActiveRound if the group has no coordinator
//   - ErrRoundEnded if the coordinator's round is over
//   - ErrStaleEpoch if the commitment is for another epoch
//   - ErrNotAMember if caller is not a member of the group
//   - ErrDuplicateCommit if caller already committed in this epoch
func (e *Engine) CommitDKG(caller randcast.Address, params CommitParams) error {
	return e.run("commit_dkg", func(tx *tx) error {
		index := params.GroupIndex
		if index >= uint64(len(e.groups)) {
			return fmt.Errorf("could not commit to group %d: %w", index, ErrUnknownGroup)
		}
		c, ok := e.coordinators[index]
		if !ok {
			return fmt.Errorf("could not commit to group %d: %w", index, ErrNoActiveRound)
		}
		if c.InPhase() == module.PhaseEnded {
			return fmt.Errorf("could not commit to group %d: %w", index, ErrRoundEnded)
		}
		g := e.groups[index]
		if params.GroupEpoch != g.Epoch {
			return fmt.Errorf("could not commit epoch %d to group %d in epoch %d: %w", params.GroupEpoch, index, g.Epoch, ErrStaleEpoch)
		}
		if !g.IsMember(caller) {
			return fmt.Errorf("could not commit %s to group %d: %w", caller.Hex(), index, ErrNotAMember)
		}
		if g.HasCommitted(caller) {
			return fmt.Errorf("could not commit %s to group %d: %w", caller.Hex(), index, ErrDuplicateCommit)
		}

		return tx.commitDKG(caller, params)
	})
}

func (tx *tx) commitDKG(caller randcast.Address, params CommitParams) error {
	e := tx.e
	index := params.GroupIndex
	g := tx.mutGroup(index)

	result := randcast.CommitResult{
		GroupEpoch:        params.GroupEpoch,
		PublicKey:         params.PublicKey,
		DisqualifiedNodes: params.DisqualifiedNodes,
	}.Copy()

	cached := false
	for i := range g.CommitCaches {
		if g.CommitCaches[i].Result.Equal(result) {
			g.CommitCaches[i].Voters = append(g.CommitCaches[i].Voters, caller)
			cached = true
			break
		}
	}
	if !cached {
		g.CommitCaches = append(g.CommitCaches, randcast.CommitCache{
			Voters: randcast.AddressList{caller},
			Result: result,
		})
	}
	g.Members.SetPartialPublicKey(caller, params.PartialPublicKey)

	tx.effect(func() {
		e.log.Debug().
			Hex("node", caller.Bytes()).
			Uint64("group_index", index).
			Uint64("group_epoch", params.GroupEpoch).
			Msg("dkg commitment accepted")
		e.metrics.CommitAccepted()
	})

	if g.ConsensusReached {
		return nil
	}
	majority, ok := randcast.StrictMajority(g.CommitCaches)
	if !ok {
		return nil
	}
	majority = majority.Copy()
	disqualified := disqualifiedMembers(g, majority.Result.DisqualifiedNodes)
	qualified := majority.Voters.Without(disqualified)
	if len(qualified) < g.Threshold {
		return nil
	}

	for _, addr := range disqualified {
		_, err := tx.removeFromGroup(addr, index, false)
		if err != nil {
			return err
		}
	}

	g.ConsensusReached = true
	g.PublicKey = majority.Result.PublicKey

	committers, err := tx.sampleCommitters(qualified)
	if err != nil {
		return fmt.Errorf("could not select committers of group %d: %w", index, err)
	}
	g.Committers = committers

	for _, addr := range disqualified {
		if !tx.node(addr).Registered() {
			continue
		}
		err = tx.slash(addr, e.params.DisqualifiedNodePenaltyAmount, 0, false)
		if err != nil {
			return err
		}
	}

	epoch := g.Epoch
	publicKey := majority.Result.PublicKey
	tx.effect(func() {
		e.log.Info().
			Uint64("group_index", index).
			Uint64("group_epoch", epoch).
			Hex("public_key", publicKey).
			Strs("committers", logging.Addresses(committers)).
			Int("disqualified", len(disqualified)).
			Msg("group consensus reached")
		e.metrics.ConsensusReached()
	})
	tx.effect(e.publish(func(c Consumer) {
		c.GroupConsensusReached(index, epoch, publicKey, committers.Copy())
	}))
	return nil
}

// disqualifiedMembers reduces a disqualified list to the distinct current
// members of the group. Only they are removed and slashed.
func disqualifiedMembers(g *randcast.Group, addrs randcast.AddressList) randcast.AddressList {
	members := make(randcast.AddressList, 0, len(addrs))
	for _, addr := range addrs {
		if g.IsMember(addr) && !members.Contains(addr) {
			members = append(members, addr)
		}
	}
	return members
}

// sampleCommitters picks the committers out of the qualified members. Fewer
// are picked if the pool is smaller than the configured number.
func (tx *tx) sampleCommitters(pool randcast.AddressList) (randcast.AddressList, error) {
	count := tx.e.params.DefaultNumberOfCommitters
	if count > len(pool) {
		count = len(pool)
	}
	candidates := make([]int, len(pool))
	for i := range candidates {
		candidates[i] = i
	}
	picked, err := sampler.SampleWithoutReplacement(tx.seed, candidates, count)
	if err != nil {
		return nil, err
	}
	committers := make(randcast.AddressList, 0, count)
	for _, i := range picked {
		committers = append(committers, pool[i])
	}
	return committers, nil
}

// PostProcessDKG finishes the round of the group once its coordinator
// reported the end. The coordinator is destroyed. If the round ended without
// consensus, the group is either voided, when no majority existed, or its
// disqualified nodes are removed and it is redistributed. In both cases all
// penalized nodes are slashed and the caller is rewarded for the cleanup.
//
// Expected errors:
//   - ErrUnknownGroup if the group does not exist
//   - ErrNotAMember if caller is not a member of the group
//   - ErrStaleEpoch if groupEpoch is not the group's epoch
//   - ErrNoActiveRound if the group has no coordinator
//   - ErrRoundInProgress if the coordinator's round is not over
func (e *Engine) PostProcessDKG(caller randcast.Address, groupIndex uint64, groupEpoch uint64) error {
	return e.run("post_process_dkg", func(tx *tx) error {
		if groupIndex >= uint64(len(e.groups)) {
			return fmt.Errorf("could not post process group %d: %w", groupIndex, ErrUnknownGroup)
		}
		g := e.groups[groupIndex]
		if !g.IsMember(caller) {
			return fmt.Errorf("could not post process group %d by %s: %w", groupIndex, caller.Hex(), ErrNotAMember)
		}
		if groupEpoch != g.Epoch {
			return fmt.Errorf("could not post process epoch %d of group %d in epoch %d: %w", groupEpoch, groupIndex, g.Epoch, ErrStaleEpoch)
		}
		c, ok := e.coordinators[groupIndex]
		if !ok {
			return fmt.Errorf("could not post process group %d: %w", groupIndex, ErrNoActiveRound)
		}
		if c.InPhase() != module.PhaseEnded {
			return fmt.Errorf("could not post process group %d: %w", groupIndex, ErrRoundInProgress)
		}

		return tx.postProcessDKG(caller, groupIndex)
	})
}

func (tx *tx) postProcessDKG(caller randcast.Address, index uint64) error {
	e := tx.e
	tx.retireCoordinator(index)

	g := tx.mutGroup(index)
	if g.ConsensusReached {
		return nil
	}

	majority, ok := randcast.StrictMajority(g.CommitCaches)
	if !ok {
		epoch := g.Epoch
		members := g.Members.Addresses()
		g.Size = 0
		g.Threshold = 0
		g.Members.Reset()
		g.ResetRound()

		for _, addr := range members {
			err := tx.slash(addr, e.params.DisqualifiedNodePenaltyAmount, 0, false)
			if err != nil {
				return err
			}
		}

		tx.effect(func() {
			e.log.Info().
				Uint64("group_index", index).
				Uint64("group_epoch", epoch).
				Int("slashed", len(members)).
				Msg("group voided")
			e.metrics.GroupVoided()
		})
		tx.effect(e.publish(func(c Consumer) {
			c.GroupVoided(index, epoch)
		}))
	} else {
		disqualified := disqualifiedMembers(g, majority.Result.DisqualifiedNodes)
		for _, addr := range disqualified {
			_, err := tx.removeFromGroup(addr, index, false)
			if err != nil {
				return err
			}
		}
		g.Threshold = randcast.ComputeThreshold(g.Size, e.params.DefaultMinimumThreshold)

		for _, addr := range disqualified {
			if !tx.node(addr).Registered() {
				continue
			}
			err := tx.slash(addr, e.params.DisqualifiedNodePenaltyAmount, 0, false)
			if err != nil {
				return err
			}
		}

		err := tx.arrangeMembersInGroup(index)
		if err != nil {
			return err
		}
	}

	tx.mutNode(caller).Reward += e.params.DKGPostProcessReward
	return nil
}
