// Package chain provides the block height the controller reads its time from.
package chain

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Clock is a monotonically increasing block height.
type Clock struct {
	height *atomic.Uint64
}

// NewClock returns a clock starting at the given height.
func NewClock(start uint64) *Clock {
	return &Clock{height: atomic.NewUint64(start)}
}

// Height returns the current block height.
func (c *Clock) Height() uint64 {
	return c.height.Load()
}

// Advance moves the clock forward by the given number of blocks and returns
// the new height.
func (c *Clock) Advance(blocks uint64) uint64 {
	return c.height.Add(blocks)
}

// Set moves the clock to the given height. Heights lower than the current one
// are ignored.
func (c *Clock) Set(height uint64) {
	for {
		cur := c.height.Load()
		if height <= cur {
			return
		}
		if c.height.CompareAndSwap(cur, height) {
			return
		}
	}
}

// Ticker advances a clock by one block per interval.
type Ticker struct {
	log      zerolog.Logger
	clock    *Clock
	interval time.Duration
	onBlock  []func(height uint64)
}

// NewTicker creates a ticker for the clock. The callbacks are invoked with the
// new height after every block.
func NewTicker(log zerolog.Logger, clock *Clock, interval time.Duration, onBlock ...func(height uint64)) *Ticker {
	return &Ticker{
		log:      log.With().Str("component", "chain_ticker").Logger(),
		clock:    clock,
		interval: interval,
		onBlock:  onBlock,
	}
}

// Run produces blocks until the context is cancelled.
func (t *Ticker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.log.Info().Dur("interval", t.interval).Uint64("height", t.clock.Height()).Msg("block ticker started")
	for {
		select {
		case <-ctx.Done():
			t.log.Info().Uint64("height", t.clock.Height()).Msg("block ticker stopped")
			return
		case <-ticker.C:
			height := t.clock.Advance(1)
			t.log.Debug().Uint64("height", height).Msg("new block")
			for _, f := range t.onBlock {
				f(height)
			}
		}
	}
}
