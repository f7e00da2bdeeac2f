package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpa-network/randcast-controller/config"
	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/module/chain"
	"github.com/arpa-network/randcast-controller/module/coordinator"
	"github.com/arpa-network/randcast-controller/module/metrics"
	"github.com/arpa-network/randcast-controller/state/controller"
	"github.com/arpa-network/randcast-controller/storage/store"
	"github.com/arpa-network/randcast-controller/utils/unittest"
)

func openEngine(t *testing.T) (*store.All, *chain.Clock, *controller.Engine) {
	stores, err := initStores(conf.Storage, metrics.NewNoopCollector())
	require.NoError(t, err)
	clock, err := resumeClock(stores)
	require.NoError(t, err)
	log := unittest.Logger()
	engine, err := controller.Load(log, conf.Controller, clock, coordinator.NewFactory(log, clock), controllerStores(stores))
	require.NoError(t, err)
	return stores, clock, engine
}

// A restarted controller resumes at the persisted height, so a round which
// ended before the restart stays ended.
func TestResumeClock(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		var err error
		conf, err = config.DefaultConfig()
		require.NoError(t, err)
		conf.Storage.Dir = dir
		conf.Chain.StartHeight = 100

		stores, clock, engine := openEngine(t)
		assert.Equal(t, uint64(100), clock.Height())

		addrs := unittest.SequentialAddressListFixture(3)
		for _, addr := range addrs {
			require.NoError(t, engine.Register(addr, unittest.DKGKeyFixture()))
		}

		clock.Set(300)
		checkpointHeight(engine)(clock.Height())
		c, err := engine.Coordinator(0)
		require.NoError(t, err)
		require.Equal(t, module.PhaseEnded, c.InPhase())

		g, err := engine.Group(0)
		require.NoError(t, err)
		params := controller.CommitParams{GroupIndex: 0, GroupEpoch: g.Epoch, PublicKey: []byte{1}}
		require.ErrorIs(t, engine.CommitDKG(addrs[0], params), controller.ErrRoundEnded)
		require.NoError(t, stores.DB.Close())

		stores, clock, engine = openEngine(t)
		defer func() {
			require.NoError(t, stores.DB.Close())
		}()
		assert.Equal(t, uint64(300), clock.Height())

		c, err = engine.Coordinator(0)
		require.NoError(t, err)
		assert.Equal(t, module.PhaseEnded, c.InPhase())
		require.ErrorIs(t, engine.CommitDKG(addrs[0], params), controller.ErrRoundEnded)
		require.NoError(t, engine.PostProcessDKG(addrs[0], 0, g.Epoch))
	})
}

func TestResumeClock_Empty(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		var err error
		conf, err = config.DefaultConfig()
		require.NoError(t, err)
		conf.Storage.Dir = dir
		conf.Chain.StartHeight = 42

		stores, err := initStores(conf.Storage, metrics.NewNoopCollector())
		require.NoError(t, err)
		defer func() {
			require.NoError(t, stores.DB.Close())
		}()

		clock, err := resumeClock(stores)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), clock.Height())
	})
}
