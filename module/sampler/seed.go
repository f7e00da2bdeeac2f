package sampler

import (
	"sync"

	"github.com/holiman/uint256"
)

// LastOutput is a seed source returning the latest randomness output
// recorded with Set. It returns the zero seed until the first output is set.
//
// The last output changes only once per randomness request, so it is known
// well ahead of the sampling it seeds. Anyone observing the chain can predict
// committer selection and rebalancing until the next output is produced.
type LastOutput struct {
	mu     sync.RWMutex
	output uint256.Int
}

// NewLastOutput returns a seed source initialized with the given output.
func NewLastOutput(output *uint256.Int) *LastOutput {
	s := &LastOutput{}
	if output != nil {
		s.output.Set(output)
	}
	return s
}

// Set records a new randomness output.
func (s *LastOutput) Set(output *uint256.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output.Set(output)
}

// Output returns a copy of the latest randomness output.
func (s *LastOutput) Output() *uint256.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return new(uint256.Int).Set(&s.output)
}

// Seed returns the latest output as a 32 byte big-endian word.
func (s *LastOutput) Seed() [32]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.output.Bytes32()
}

// Fixed is a seed source that always returns the same seed.
type Fixed [32]byte

// Seed returns the fixed seed.
func (f Fixed) Seed() [32]byte {
	return f
}
