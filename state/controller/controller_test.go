package controller_test

import (
	"github.com/stretchr/testify/require"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module/chain"
	"github.com/arpa-network/randcast-controller/module/coordinator"
	"github.com/arpa-network/randcast-controller/module/sampler"
	"github.com/arpa-network/randcast-controller/state/controller"
	"github.com/arpa-network/randcast-controller/utils/unittest"
)

const startHeight = 100

// newEngine returns an engine with default parameters, real coordinators and
// a fixed sampling seed.
func newEngine(t require.TestingT, opts ...controller.Option) (*controller.Engine, *chain.Clock) {
	clock := chain.NewClock(startHeight)
	factory := coordinator.NewFactory(unittest.Logger(), clock)
	opts = append([]controller.Option{controller.WithSeedSource(sampler.Fixed{})}, opts...)
	e, err := controller.New(unittest.Logger(), controller.DefaultParams(), clock, factory, opts...)
	require.NoError(t, err)
	return e, clock
}

func register(t require.TestingT, e *controller.Engine, addrs ...randcast.Address) {
	for _, addr := range addrs {
		require.NoError(t, e.Register(addr, unittest.DKGKeyFixture()))
	}
}

// commit submits the same result for every voter in the group's current epoch.
func commit(t require.TestingT, e *controller.Engine, groupIndex uint64, key []byte, disqualified randcast.AddressList, voters ...randcast.Address) {
	g, err := e.Group(groupIndex)
	require.NoError(t, err)
	for _, voter := range voters {
		err := e.CommitDKG(voter, controller.CommitParams{
			GroupIndex:        groupIndex,
			GroupEpoch:        g.Epoch,
			PublicKey:         key,
			PartialPublicKey:  unittest.RandomBytes(48),
			DisqualifiedNodes: disqualified,
		})
		require.NoError(t, err)
	}
}

// reachConsensus commits one key from as many members as the threshold requires.
func reachConsensus(t require.TestingT, e *controller.Engine, groupIndex uint64) []byte {
	g, err := e.Group(groupIndex)
	require.NoError(t, err)
	key := unittest.RandomBytes(96)
	commit(t, e, groupIndex, key, nil, g.Members.Addresses()[:g.Threshold]...)

	g, err = e.Group(groupIndex)
	require.NoError(t, err)
	require.True(t, g.ConsensusReached)
	return key
}

// endRound moves the clock past the last phase of any running round.
func endRound(e *controller.Engine, clock *chain.Clock) {
	clock.Advance(coordinator.NumPhases*e.Params().DKGPhaseDuration + 1)
}

// requireConsistent checks the invariants every snapshot of the engine must hold.
func requireConsistent(t require.TestingT, e *controller.Engine) {
	params := e.Params()
	seen := make(map[randcast.Address]uint64)
	for _, g := range e.Groups() {
		require.Equal(t, g.Size, g.Members.Len(), "size of group %d", g.Index)
		require.Equal(t, randcast.ComputeThreshold(g.Size, params.DefaultMinimumThreshold), g.Threshold, "threshold of group %d", g.Index)
		for _, addr := range g.Members.Addresses() {
			other, ok := seen[addr]
			require.False(t, ok, "node %s is a member of groups %d and %d", addr.Hex(), other, g.Index)
			seen[addr] = g.Index

			_, err := e.Node(addr)
			require.NoError(t, err)
		}
	}
}
