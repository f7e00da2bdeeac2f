package controller_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/state/controller"
	"github.com/arpa-network/randcast-controller/utils/unittest"
)

// Three nodes registering with an empty directory form group 0, and the third
// one starts its first DKG round.
func TestJoin_FirstGroup(t *testing.T) {
	e, clock := newEngine(t)
	addrs := unittest.SequentialAddressListFixture(3)

	register(t, e, addrs[:2]...)
	g, err := e.Group(0)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Size)
	assert.Equal(t, 2, g.Threshold)
	assert.Zero(t, g.Epoch)
	_, err = e.Coordinator(0)
	require.ErrorIs(t, err, controller.ErrNoActiveRound)

	register(t, e, addrs[2])
	g, err = e.Group(0)
	require.NoError(t, err)
	assert.Len(t, e.Groups(), 1)
	assert.Equal(t, 3, g.Size)
	assert.Equal(t, 2, g.Threshold)
	assert.Equal(t, uint64(1), g.Epoch)
	assert.Equal(t, addrs, g.Members.Addresses())
	assert.Equal(t, uint64(1), e.GlobalEpoch())

	c, err := e.Coordinator(0)
	require.NoError(t, err)
	assert.Equal(t, 1, c.InPhase())
	assert.Equal(t, addrs, c.Participants())
	threshold, keys := c.DKGKeys()
	assert.Equal(t, 2, threshold)
	assert.Len(t, keys, 3)
	assert.Equal(t, module.PhaseCoordinatorParams{
		GroupIndex:    0,
		GroupEpoch:    1,
		GlobalEpoch:   1,
		Threshold:     2,
		PhaseDuration: e.Params().DKGPhaseDuration,
		StartBlock:    clock.Height(),
	}, c.Params())

	addr, err := e.CoordinatorAddress(0)
	require.NoError(t, err)
	assert.Equal(t, c.Address(), addr)
}

// Once every group reached consensus, a joining node opens a new group which
// is filled by rebalancing.
func TestJoin_NewGroupIsRebalanced(t *testing.T) {
	e, _ := newEngine(t)
	addrs := unittest.SequentialAddressListFixture(7)

	register(t, e, addrs[:6]...)
	g0, err := e.Group(0)
	require.NoError(t, err)
	require.Equal(t, 6, g0.Size)
	require.Equal(t, uint64(4), g0.Epoch)
	reachConsensus(t, e, 0)

	register(t, e, addrs[6])
	groups := e.Groups()
	require.Len(t, groups, 2)

	// 6 and 1 balance into 3 and 4
	assert.Equal(t, 3, groups[0].Size)
	assert.Equal(t, 2, groups[0].Threshold)
	assert.Equal(t, uint64(5), groups[0].Epoch)
	assert.False(t, groups[0].ConsensusReached)

	assert.Equal(t, 4, groups[1].Size)
	assert.Equal(t, 3, groups[1].Threshold)
	assert.Equal(t, uint64(1), groups[1].Epoch)
	assert.True(t, groups[1].IsMember(addrs[6]))

	assert.Equal(t, uint64(6), e.GlobalEpoch())
	requireConsistent(t, e)
}

// The new group stays small while the existing group cannot give away
// members without dropping below the viable size.
func TestJoin_NewGroupWithoutRebalance(t *testing.T) {
	e, _ := newEngine(t)
	addrs := unittest.SequentialAddressListFixture(6)

	register(t, e, addrs[:3]...)
	reachConsensus(t, e, 0)

	register(t, e, addrs[3])
	groups := e.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, 3, groups[0].Size)
	assert.True(t, groups[0].ConsensusReached)
	assert.Equal(t, 1, groups[1].Size)

	// further nodes fill the smallest group
	register(t, e, addrs[4:]...)
	groups = e.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, 3, groups[1].Size)
	assert.Equal(t, uint64(1), groups[1].Epoch)
	requireConsistent(t, e)
}

func TestRebalance(t *testing.T) {
	e, _ := newEngine(t)
	addrs := unittest.SequentialAddressListFixture(6)
	register(t, e, addrs[:3]...)
	reachConsensus(t, e, 0)
	register(t, e, addrs[3:]...)

	groups := e.Groups()
	require.Equal(t, 3, groups[0].Size)
	require.Equal(t, 3, groups[1].Size)
	epoch := e.GlobalEpoch()

	// balanced pairs are left alone
	rebalanced, err := e.Rebalance(0, 1)
	require.NoError(t, err)
	assert.False(t, rebalanced)
	assert.Equal(t, epoch, e.GlobalEpoch())

	_, err = e.Rebalance(0, 2)
	require.ErrorIs(t, err, controller.ErrUnknownGroup)
}

// A group falling below the viable size hands its members to smaller groups
// when no pairwise rebalance is possible.
func TestArrange_Redistribution(t *testing.T) {
	e, _ := newEngine(t)
	addrs := unittest.SequentialAddressListFixture(4)
	register(t, e, addrs[:3]...)
	reachConsensus(t, e, 0)
	register(t, e, addrs[3])

	g0, err := e.Group(0)
	require.NoError(t, err)
	members := g0.Members.Addresses()

	require.NoError(t, e.Quit(members[0]))

	groups := e.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, 1, groups[0].Size)
	assert.False(t, groups[0].ConsensusReached)
	assert.True(t, groups[0].IsMember(members[2]))

	assert.Equal(t, 2, groups[1].Size)
	assert.True(t, groups[1].IsMember(addrs[3]))
	assert.True(t, groups[1].IsMember(members[1]))
	requireConsistent(t, e)
}

// A single group falling below the viable size has nowhere to send its
// members and keeps them.
func TestArrange_NoTarget(t *testing.T) {
	e, _ := newEngine(t)
	addrs := unittest.SequentialAddressListFixture(3)
	register(t, e, addrs...)

	require.NoError(t, e.Quit(addrs[1]))

	groups := e.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].Size)
	assert.Equal(t, 2, groups[0].Threshold)
	assert.Equal(t, uint64(1), groups[0].Epoch)
	requireConsistent(t, e)
}

// All groups at capacity make a joining node open a new group.
func TestJoin_FullGroups(t *testing.T) {
	e, _ := newEngine(t)
	capacity := e.Params().GroupMaxCapacity
	addrs := unittest.SequentialAddressListFixture(capacity + 1)

	register(t, e, addrs[:capacity]...)
	require.Len(t, e.Groups(), 1)

	register(t, e, addrs[capacity])
	groups := e.Groups()
	require.Len(t, groups, 2)

	// 10 and 1 balance into 5 and 6
	assert.Equal(t, 5, groups[0].Size)
	assert.Equal(t, 6, groups[1].Size)
	requireConsistent(t, e)
}
