package coordinator

import (
	"github.com/rs/zerolog"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
)

// Factory creates coordinators which read the block height from the same
// chain.
type Factory struct {
	log   zerolog.Logger
	chain module.Chain
}

var _ module.PhaseCoordinatorFactory = (*Factory)(nil)

// NewFactory creates a new factory.
func NewFactory(log zerolog.Logger, chain module.Chain) *Factory {
	return &Factory{
		log:   log,
		chain: chain,
	}
}

// Create creates an uninitialized coordinator.
func (f *Factory) Create(params module.PhaseCoordinatorParams) (module.PhaseCoordinator, error) {
	return New(f.log, f.chain, params), nil
}

// Restore re-creates a coordinator of a round that was initialized with the
// given members and keys at params.StartBlock.
func (f *Factory) Restore(params module.PhaseCoordinatorParams, members randcast.AddressList, keys [][]byte) (module.PhaseCoordinator, error) {
	c := New(f.log, f.chain, params)
	c.restore(members, keys, params.StartBlock)
	return c, nil
}
