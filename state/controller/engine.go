// Package controller implements the group lifecycle and consensus engine of
// the randomness network: node staking, group assignment and rebalancing,
// DKG commitment consensus, slashing, and the DKG task emission.
package controller

import (
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/module/metrics"
	"github.com/arpa-network/randcast-controller/module/sampler"
	"github.com/arpa-network/randcast-controller/storage"
)

// Stores are the stores the engine persists its state in.
type Stores struct {
	DB        storage.DB
	Nodes     storage.Nodes
	Groups    storage.Groups
	DKGRounds storage.DKGRounds
	Meta      storage.ControllerMeta
}

// Engine holds the controller state. Every state-changing operation runs
// exclusively and either applies all its effects or none.
type Engine struct {
	log      zerolog.Logger
	params   Params
	chain    module.Chain
	factory  module.PhaseCoordinatorFactory
	metrics  module.ControllerMetrics
	consumer Consumer
	stores   *Stores

	// lastOutput is the default seed source; seeds may be replaced with
	// WithSeedSource.
	lastOutput *sampler.LastOutput
	seeds      module.SeedSource

	mu           sync.RWMutex
	nodes        map[randcast.Address]*randcast.Node
	groups       []*randcast.Group
	coordinators map[uint64]module.PhaseCoordinator
	globalEpoch  uint64

	// dispatch serializes event delivery in commit order.
	dispatch sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeedSource replaces the seed used for committer and rebalance
// sampling. By default the latest randomness output is used.
func WithSeedSource(seeds module.SeedSource) Option {
	return func(e *Engine) {
		e.seeds = seeds
	}
}

func WithConsumer(consumer Consumer) Option {
	return func(e *Engine) {
		e.consumer = consumer
	}
}

func WithMetrics(collector module.ControllerMetrics) Option {
	return func(e *Engine) {
		e.metrics = collector
	}
}

// WithStores makes the engine persist the entities changed by every
// operation in one batch before the operation returns.
func WithStores(stores Stores) Option {
	return func(e *Engine) {
		e.stores = &stores
	}
}

// New creates an engine without any node or group.
func New(log zerolog.Logger, params Params, chain module.Chain, factory module.PhaseCoordinatorFactory, opts ...Option) (*Engine, error) {
	err := params.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid controller parameters: %w", err)
	}

	lastOutput := sampler.NewLastOutput(nil)
	e := &Engine{
		log:          log.With().Str("component", "controller").Logger(),
		params:       params,
		chain:        chain,
		factory:      factory,
		metrics:      metrics.NewNoopCollector(),
		lastOutput:   lastOutput,
		seeds:        lastOutput,
		nodes:        make(map[randcast.Address]*randcast.Node),
		coordinators: make(map[uint64]module.PhaseCoordinator),
	}
	for _, apply := range opts {
		apply(e)
	}
	return e, nil
}

// Params returns the protocol parameters.
func (e *Engine) Params() Params {
	return e.params
}

// SetLastOutput records the latest randomness output. It seeds the sampling
// of subsequent operations unless a seed source was configured.
func (e *Engine) SetLastOutput(output *uint256.Int) error {
	return e.run("set_last_output", func(tx *tx) error {
		tx.lastOutput = new(uint256.Int).Set(output)
		return nil
	})
}

// CheckpointHeight persists the current block height, so that a restarted
// controller does not resume at an older height and reopen rounds which
// already ended. Without stores it is a no-op.
func (e *Engine) CheckpointHeight() error {
	if e.stores == nil {
		return nil
	}
	return e.run("checkpoint_height", func(*tx) error {
		return nil
	})
}

// run executes fn as one atomic operation.
func (e *Engine) run(operation string, fn func(tx *tx) error) error {
	start := time.Now()

	e.mu.Lock()
	tx := e.begin(operation)
	err := fn(tx)
	if err == nil {
		err = tx.commit()
	}
	if err != nil {
		tx.rollback()
		e.mu.Unlock()
		return err
	}

	e.dispatch.Lock()
	e.mu.Unlock()
	defer e.dispatch.Unlock()

	e.metrics.OperationDuration(operation, time.Since(start))
	for _, effect := range tx.effects {
		effect()
	}
	return nil
}

func (e *Engine) publish(f func(c Consumer)) func() {
	return func() {
		if e.consumer != nil {
			f(e.consumer)
		}
	}
}
