package controller_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/state/controller"
	"github.com/arpa-network/randcast-controller/utils/unittest"
)

func TestRegister(t *testing.T) {
	e, _ := newEngine(t)
	addr := unittest.AddressFixture()
	key := unittest.DKGKeyFixture()

	require.NoError(t, e.Register(addr, key))

	node, err := e.Node(addr)
	require.NoError(t, err)
	assert.True(t, node.Active)
	assert.Equal(t, e.Params().NodeStakingAmount, node.Stake)
	assert.Equal(t, key, node.DKGPublicKey)

	t.Run("twice", func(t *testing.T) {
		err := e.Register(addr, key)
		require.ErrorIs(t, err, controller.ErrAlreadyRegistered)
		assert.True(t, controller.IsPreconditionError(err))
	})

	t.Run("zero address", func(t *testing.T) {
		err := e.Register(randcast.ZeroAddress, key)
		require.ErrorIs(t, err, controller.ErrInvalidAddress)
	})

	t.Run("after quit", func(t *testing.T) {
		require.NoError(t, e.Quit(addr))
		err := e.Register(addr, key)
		require.ErrorIs(t, err, controller.ErrAlreadyRegistered)
	})
}

func TestStaking(t *testing.T) {
	e, _ := newEngine(t)
	addr := unittest.AddressFixture()
	unknown := unittest.AddressFixture()
	register(t, e, addr)

	require.ErrorIs(t, e.AddStake(unknown, 1), controller.ErrNotRegistered)
	require.ErrorIs(t, e.Unstake(unknown, 1), controller.ErrNotRegistered)

	require.NoError(t, e.AddStake(addr, 500))
	stake, reward, err := e.StakeOf(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(50500), stake)
	assert.Zero(t, reward)

	// an active node keeps the minimum stake
	require.NoError(t, e.Unstake(addr, 500))
	err = e.Unstake(addr, 1)
	require.ErrorIs(t, err, controller.ErrBelowMinimumStake)

	stake, _, err = e.StakeOf(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(50000), stake)

	_, _, err = e.StakeOf(unknown)
	require.ErrorIs(t, err, controller.ErrNotRegistered)
}

func TestUnstake_Frozen(t *testing.T) {
	e, _ := newEngine(t)
	addr := unittest.AddressFixture()
	register(t, e, addr)

	require.NoError(t, e.Slash(addr, 0, 10, true))
	require.NoError(t, e.Unstake(addr, 49000))

	require.ErrorIs(t, e.Unstake(addr, 1001), controller.ErrBelowMinimumStake)

	stake, _, err := e.StakeOf(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), stake)
}

func TestQuit(t *testing.T) {
	e, clock := newEngine(t)
	addrs := unittest.SequentialAddressListFixture(4)
	register(t, e, addrs...)

	require.NoError(t, e.Quit(addrs[0]))

	node, err := e.Node(addrs[0])
	require.NoError(t, err)
	assert.False(t, node.Active)
	assert.Zero(t, node.Stake)
	assert.Equal(t, clock.Height()+e.Params().PendingBlockAfterQuit, node.PendingUntilBlock)

	g, err := e.Group(0)
	require.NoError(t, err)
	assert.False(t, g.IsMember(addrs[0]))
	assert.Equal(t, 3, g.Size)
	// the group is still viable, so the removal started a new round
	assert.Equal(t, uint64(3), g.Epoch)

	require.ErrorIs(t, e.Quit(unittest.AddressFixture()), controller.ErrNotRegistered)
}

func TestActivate(t *testing.T) {
	e, clock := newEngine(t)
	addr := unittest.AddressFixture()
	register(t, e, addr)

	require.ErrorIs(t, e.Activate(addr), controller.ErrNodeActive)
	require.ErrorIs(t, e.Activate(unittest.AddressFixture()), controller.ErrNotRegistered)

	require.NoError(t, e.Slash(addr, 0, 20, true))
	g, err := e.Group(0)
	require.NoError(t, err)
	require.Zero(t, g.Size)

	require.ErrorIs(t, e.Activate(addr), controller.ErrNodeFrozen)

	clock.Advance(20)
	require.NoError(t, e.Activate(addr))

	node, err := e.Node(addr)
	require.NoError(t, err)
	assert.True(t, node.Active)

	g, err = e.Group(0)
	require.NoError(t, err)
	assert.True(t, g.IsMember(addr))

	t.Run("below minimum stake", func(t *testing.T) {
		require.NoError(t, e.Slash(addr, 1, 0, true))
		node, err := e.Node(addr)
		require.NoError(t, err)
		require.False(t, node.Active)

		require.ErrorIs(t, e.Activate(addr), controller.ErrBelowMinimumStake)

		require.NoError(t, e.AddStake(addr, 1))
		require.NoError(t, e.Activate(addr))
	})
}
