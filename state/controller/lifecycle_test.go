package controller_test

import (
	"os"
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/suite"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module/chain"
	"github.com/arpa-network/randcast-controller/module/coordinator"
	"github.com/arpa-network/randcast-controller/module/sampler"
	"github.com/arpa-network/randcast-controller/state/controller"
	"github.com/arpa-network/randcast-controller/storage"
	"github.com/arpa-network/randcast-controller/storage/operation/badgerimpl"
	"github.com/arpa-network/randcast-controller/utils/unittest"
)

// LifecycleSuite runs a node through quitting and re-activation on a
// persisted engine, reloading the engine from the database after every step.
type LifecycleSuite struct {
	suite.Suite

	dir    string
	badger *badger.DB
	db     storage.DB
	clock  *chain.Clock
	engine *controller.Engine
	nodes  randcast.AddressList
}

func TestLifecycle(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.dir = unittest.TempDir(s.T())
	s.badger = unittest.BadgerDB(s.T(), s.dir)
	s.db = badgerimpl.ToDB(s.badger)
	s.clock = chain.NewClock(startHeight)
	s.engine = s.load()

	s.nodes = unittest.SequentialAddressListFixture(3)
	register(s.T(), s.engine, s.nodes...)
	s.requireGroupSize(0, 3)
}

func (s *LifecycleSuite) TearDownTest() {
	s.Require().NoError(s.badger.Close())
	s.Require().NoError(os.RemoveAll(s.dir))
}

func (s *LifecycleSuite) load() *controller.Engine {
	log := unittest.Logger()
	e, err := controller.Load(log, controller.DefaultParams(), s.clock, coordinator.NewFactory(log, s.clock), storesOf(s.db),
		controller.WithSeedSource(sampler.Fixed{}))
	s.Require().NoError(err)
	return e
}

// reload replaces the engine with one loaded from the database and checks
// nothing was lost.
func (s *LifecycleSuite) reload() {
	restored := s.load()
	s.Assert().Equal(s.engine.Nodes(), restored.Nodes())
	s.Assert().Equal(s.engine.GlobalEpoch(), restored.GlobalEpoch())
	s.Require().Len(restored.Groups(), len(s.engine.Groups()))
	for i, g := range s.engine.Groups() {
		s.Assert().Equal(g.Members.Addresses(), restored.Groups()[i].Members.Addresses())
	}
	s.engine = restored
}

func (s *LifecycleSuite) requireGroupSize(index uint64, size int) {
	g, err := s.engine.Group(index)
	s.Require().NoError(err)
	s.Require().Equal(size, g.Size)
	requireConsistent(s.T(), s.engine)
}

func (s *LifecycleSuite) TestQuitAndActivate() {
	quitter := s.nodes[0]
	params := s.engine.Params()

	s.Require().NoError(s.engine.Quit(quitter))
	s.reload()

	node, err := s.engine.Node(quitter)
	s.Require().NoError(err)
	s.Assert().False(node.Active)
	s.Assert().Zero(node.Stake)
	s.Assert().Equal(startHeight+params.PendingBlockAfterQuit, node.PendingUntilBlock)
	s.requireGroupSize(0, 2)

	err = s.engine.Activate(quitter)
	s.Require().ErrorIs(err, controller.ErrNodeFrozen)

	s.clock.Advance(params.PendingBlockAfterQuit)
	err = s.engine.Activate(quitter)
	s.Require().ErrorIs(err, controller.ErrBelowMinimumStake)

	s.Require().NoError(s.engine.AddStake(quitter, params.MinimumStake))
	s.Require().NoError(s.engine.Activate(quitter))
	s.reload()

	// the group is viable again and starts a new round
	s.requireGroupSize(0, 3)
	g, err := s.engine.Group(0)
	s.Require().NoError(err)
	s.Assert().True(g.IsMember(quitter))
	s.Assert().Equal(uint64(2), g.Epoch)

	c, err := s.engine.Coordinator(0)
	s.Require().NoError(err)
	s.Assert().Equal(s.clock.Height(), c.Params().StartBlock)

	err = s.engine.Activate(quitter)
	s.Require().ErrorIs(err, controller.ErrNodeActive)
}

func (s *LifecycleSuite) TestSlashBelowMinimum() {
	slashed := s.nodes[1]

	// a slash below the minimum stake freezes without a window
	s.Require().NoError(s.engine.Slash(slashed, 1000, 0, true))
	s.reload()

	node, err := s.engine.Node(slashed)
	s.Require().NoError(err)
	s.Assert().False(node.Active)
	s.Assert().Equal(uint64(49000), node.Stake)
	s.requireGroupSize(0, 2)

	s.Require().ErrorIs(s.engine.Activate(slashed), controller.ErrBelowMinimumStake)
	s.Require().NoError(s.engine.AddStake(slashed, 1000))
	s.Require().NoError(s.engine.Activate(slashed))
	s.reload()
	s.requireGroupSize(0, 3)
}
