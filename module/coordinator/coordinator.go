// Package coordinator implements the block-height driven phase coordinator
// of a DKG round.
package coordinator

import (
	"encoding/binary"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/sha3"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
)

// NumPhases is the number of phases of a DKG round.
const NumPhases = 4

// Coordinator times the phases of one DKG round. The round starts with
// Initialize and runs NumPhases phases of PhaseDuration blocks each.
type Coordinator struct {
	log     zerolog.Logger
	chain   module.Chain
	params  module.PhaseCoordinatorParams
	address randcast.Address

	mu           sync.RWMutex
	initialized  bool
	destroyed    bool
	startBlock   uint64
	participants randcast.AddressList
	keys         [][]byte
}

var _ module.PhaseCoordinator = (*Coordinator)(nil)

// New creates a coordinator which is not initialized yet.
func New(log zerolog.Logger, chain module.Chain, params module.PhaseCoordinatorParams) *Coordinator {
	address := Address(params)
	return &Coordinator{
		log: log.With().
			Str("component", "phase_coordinator").
			Uint64("group_index", params.GroupIndex).
			Uint64("group_epoch", params.GroupEpoch).
			Str("coordinator", address.Hex()).
			Logger(),
		chain:   chain,
		params:  params,
		address: address,
	}
}

// Address derives the coordinator identity from its group index, group epoch
// and global epoch: the last 20 bytes of their keccak256 hash.
func Address(params module.PhaseCoordinatorParams) randcast.Address {
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], params.GroupIndex)
	binary.BigEndian.PutUint64(buf[8:16], params.GroupEpoch)
	binary.BigEndian.PutUint64(buf[16:24], params.GlobalEpoch)

	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(buf[:])
	sum := h.Sum(nil)

	var addr randcast.Address
	copy(addr[:], sum[len(sum)-len(addr):])
	return addr
}

func (c *Coordinator) Address() randcast.Address {
	return c.address
}

func (c *Coordinator) Params() module.PhaseCoordinatorParams {
	return c.params
}

// Initialize starts the round at params.StartBlock, the height the round was
// assigned at. Phases are counted from there, not from the height of the call.
func (c *Coordinator) Initialize(members randcast.AddressList, keys [][]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized || c.destroyed {
		return
	}
	c.initialized = true
	c.startBlock = c.params.StartBlock
	c.participants = members.Copy()
	c.keys = make([][]byte, len(keys))
	for i, k := range keys {
		c.keys[i] = append([]byte(nil), k...)
	}

	c.log.Debug().
		Int("participants", len(members)).
		Uint64("start_block", c.startBlock).
		Msg("dkg round initialized")
}

// InPhase returns the current phase in [1, NumPhases], or module.PhaseEnded
// if the round is not initialized, has run all its phases or was destroyed.
func (c *Coordinator) InPhase() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.initialized || c.destroyed {
		return module.PhaseEnded
	}
	height := c.chain.Height()
	if height < c.startBlock || c.params.PhaseDuration == 0 {
		return module.PhaseEnded
	}
	phase := (height-c.startBlock)/c.params.PhaseDuration + 1
	if phase > NumPhases {
		return module.PhaseEnded
	}
	return int(phase)
}

func (c *Coordinator) Participants() randcast.AddressList {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.participants.Copy()
}

func (c *Coordinator) DKGKeys() (int, [][]byte) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([][]byte, len(c.keys))
	for i, k := range c.keys {
		keys[i] = append([]byte(nil), k...)
	}
	return c.params.Threshold, keys
}

// SelfDestruct ends the round for good.
func (c *Coordinator) SelfDestruct() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}
	c.destroyed = true
	c.log.Debug().Msg("phase coordinator destroyed")
}

// restore sets the round state of a coordinator that was initialized before
// a restart.
func (c *Coordinator) restore(members randcast.AddressList, keys [][]byte, startBlock uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.initialized = true
	c.startBlock = startBlock
	c.participants = members.Copy()
	c.keys = keys
}
