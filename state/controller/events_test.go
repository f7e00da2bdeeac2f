package controller_test

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/module/chain"
	mockmodule "github.com/arpa-network/randcast-controller/module/mock"
	"github.com/arpa-network/randcast-controller/state/controller"
	mockcontroller "github.com/arpa-network/randcast-controller/state/controller/mock"
	"github.com/arpa-network/randcast-controller/utils/unittest"
)

func TestEvents(t *testing.T) {
	consumer := mockcontroller.NewConsumer(t)
	e, clock := newEngine(t, controller.WithConsumer(consumer))
	addrs := unittest.SequentialAddressListFixture(3)

	consumer.On("DKGTaskPublished", mock.MatchedBy(func(task randcast.DKGTask) bool {
		return task.GroupIndex == 0 &&
			task.Epoch == 1 &&
			task.Size == 3 &&
			task.Threshold == 2 &&
			task.Members.Equal(addrs) &&
			task.AssignmentBlockHeight == clock.Height() &&
			task.CoordinatorAddress != randcast.ZeroAddress
	})).Once()
	register(t, e, addrs...)

	key := unittest.RandomBytes(96)
	consumer.On("GroupConsensusReached", uint64(0), uint64(1), key, mock.AnythingOfType("randcast.AddressList")).Once()
	commit(t, e, 0, key, nil, addrs[:2]...)

	penalty := uint64(2000)
	consumer.On("NodeSlashed", addrs[0], penalty, e.Params().NodeStakingAmount-penalty).Once()
	consumer.On("NodeFrozen", addrs[0], clock.Height()).Once()
	require.NoError(t, e.Slash(addrs[0], penalty, 0, false))

	// events are delivered in the order they were caused
	calls := consumer.Calls
	require.Len(t, calls, 4)
	assert.Equal(t, "NodeSlashed", calls[2].Method)
	assert.Equal(t, "NodeFrozen", calls[3].Method)
}

// A coordinator replaced by a new round is destroyed.
func TestEmit_ReplacesCoordinator(t *testing.T) {
	e, _ := newEngine(t)
	addrs := unittest.SequentialAddressListFixture(4)
	register(t, e, addrs[:3]...)

	first, err := e.Coordinator(0)
	require.NoError(t, err)
	require.Equal(t, 1, first.InPhase())

	register(t, e, addrs[3])
	second, err := e.Coordinator(0)
	require.NoError(t, err)
	assert.NotEqual(t, first.Address(), second.Address())
	assert.Equal(t, module.PhaseEnded, first.InPhase())
	assert.Equal(t, 1, second.InPhase())
	assert.Equal(t, uint64(2), second.Params().GroupEpoch)
}

// The engine hands the assigned members and their keys to the coordinator of
// the round and follows the coordinator's phase.
func TestEmit_InitializesCoordinator(t *testing.T) {
	clock := chain.NewClock(startHeight)
	factory := mockmodule.NewPhaseCoordinatorFactory(t)
	e, err := controller.New(unittest.Logger(), controller.DefaultParams(), clock, factory)
	require.NoError(t, err)

	addrs := unittest.SequentialAddressListFixture(3)
	keys := [][]byte{unittest.DKGKeyFixture(), unittest.DKGKeyFixture(), unittest.DKGKeyFixture()}
	coordinatorAddr := unittest.AddressFixture()

	c := mockmodule.NewPhaseCoordinator(t)
	factory.On("Create", mock.MatchedBy(func(params module.PhaseCoordinatorParams) bool {
		return params.GroupIndex == 0 &&
			params.GroupEpoch == 1 &&
			params.Threshold == 2 &&
			params.StartBlock == startHeight
	})).Return(c, nil).Once()
	c.On("Initialize", addrs, keys).Once()
	c.On("Address").Return(coordinatorAddr)

	for i, addr := range addrs {
		require.NoError(t, e.Register(addr, keys[i]))
	}
	addr, err := e.CoordinatorAddress(0)
	require.NoError(t, err)
	assert.Equal(t, coordinatorAddr, addr)

	c.On("InPhase").Return(module.PhaseEnded)
	g, err := e.Group(0)
	require.NoError(t, err)
	err = e.CommitDKG(addrs[0], controller.CommitParams{GroupIndex: 0, GroupEpoch: g.Epoch, PublicKey: []byte{1}})
	require.ErrorIs(t, err, controller.ErrRoundEnded)
}

// A failing operation leaves no trace, neither in the state nor in the events.
func TestRollback(t *testing.T) {
	clock := chain.NewClock(startHeight)
	factory := mockmodule.NewPhaseCoordinatorFactory(t)
	consumer := mockcontroller.NewConsumer(t)
	e, err := controller.New(unittest.Logger(), controller.DefaultParams(), clock, factory, controller.WithConsumer(consumer))
	require.NoError(t, err)

	addrs := unittest.SequentialAddressListFixture(3)
	register(t, e, addrs[:2]...)

	factory.On("Create", mock.Anything).Return(nil, errors.New("unavailable")).Once()
	err = e.Register(addrs[2], unittest.DKGKeyFixture())
	require.Error(t, err)
	assert.False(t, controller.IsPreconditionError(err))

	_, err = e.Node(addrs[2])
	require.ErrorIs(t, err, controller.ErrNotRegistered)
	g, err := e.Group(0)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Size)
	assert.Equal(t, addrs[:2], g.Members.Addresses())
	assert.Zero(t, g.Epoch)
	assert.Zero(t, e.GlobalEpoch())
	assert.Len(t, e.Nodes(), 2)
}

func TestLastOutput(t *testing.T) {
	clock := chain.NewClock(startHeight)
	factory := mockmodule.NewPhaseCoordinatorFactory(t)
	e, err := controller.New(unittest.Logger(), controller.DefaultParams(), clock, factory)
	require.NoError(t, err)

	assert.True(t, e.LastOutput().IsZero())

	require.NoError(t, e.SetLastOutput(uint256.NewInt(42)))
	assert.Equal(t, uint64(42), e.LastOutput().Uint64())
}

func TestSeedSource(t *testing.T) {
	seeds := mockmodule.NewSeedSource(t)
	seeds.On("Seed").Return([32]byte{1})
	e, _ := newEngine(t, controller.WithSeedSource(seeds))

	register(t, e, unittest.AddressFixture())
	seeds.AssertNumberOfCalls(t, "Seed", 1)
}

func TestNew_InvalidParams(t *testing.T) {
	params := controller.DefaultParams()
	params.MinimumGroupSize = 0
	params.DKGPhaseDuration = 0

	_, err := controller.New(unittest.Logger(), params, chain.NewClock(0), mockmodule.NewPhaseCoordinatorFactory(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minimum group size")
	assert.Contains(t, err.Error(), "phase duration")
}
