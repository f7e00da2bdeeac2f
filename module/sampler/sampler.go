// Package sampler implements the deterministic sampling used to pick
// committers and the members moved by a rebalance.
package sampler

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// ErrInvalidSampleSize is returned when more samples are requested than
// candidates are available. It always indicates a bug in the caller.
var ErrInvalidSampleSize = errors.New("sample size exceeds candidate pool")

// IsInvalidSampleSize returns true if err is or wraps ErrInvalidSampleSize.
func IsInvalidSampleSize(err error) bool {
	return errors.Is(err, ErrInvalidSampleSize)
}

// Index returns the i-th pseudo-random value derived from seed:
// keccak256(seed || i), both encoded as 32 byte big-endian words.
func Index(seed [32]byte, i uint64) *uint256.Int {
	var buf [64]byte
	copy(buf[:32], seed[:])
	counter := uint256.NewInt(i).Bytes32()
	copy(buf[32:], counter[:])

	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(buf[:])
	return new(uint256.Int).SetBytes(h.Sum(nil))
}

// SampleWithoutReplacement picks count distinct values of candidates.
//
// For every i in [0, count) it reduces Index(seed, i) modulo the number of
// remaining candidates, picks that candidate and moves the last remaining
// candidate into its place. The output is a pure function of seed and the
// order of candidates. The candidates slice is not modified.
func SampleWithoutReplacement(seed [32]byte, candidates []int, count int) ([]int, error) {
	if count < 0 || count > len(candidates) {
		return nil, fmt.Errorf("cannot sample %d out of %d candidates: %w", count, len(candidates), ErrInvalidSampleSize)
	}

	pool := make([]int, len(candidates))
	copy(pool, candidates)

	picked := make([]int, 0, count)
	remaining := len(pool)
	for i := 0; i < count; i++ {
		r := Index(seed, uint64(i))
		j := r.Mod(r, uint256.NewInt(uint64(remaining))).Uint64()

		picked = append(picked, pool[j])
		pool[j] = pool[remaining-1]
		remaining--
	}
	return picked, nil
}
