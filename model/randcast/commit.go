package randcast

import (
	"bytes"
)

// CommitResult is the outcome of a DKG round as seen by one member.
type CommitResult struct {
	GroupEpoch        uint64
	PublicKey         []byte
	DisqualifiedNodes AddressList
}

// Equal compares two results structurally. The disqualified lists must be in
// the same order to be equal.
func (r CommitResult) Equal(other CommitResult) bool {
	return r.GroupEpoch == other.GroupEpoch &&
		bytes.Equal(r.PublicKey, other.PublicKey) &&
		r.DisqualifiedNodes.Equal(other.DisqualifiedNodes)
}

// Copy returns a deep copy of the result.
func (r CommitResult) Copy() CommitResult {
	return CommitResult{
		GroupEpoch:        r.GroupEpoch,
		PublicKey:         copyBytes(r.PublicKey),
		DisqualifiedNodes: r.DisqualifiedNodes.Copy(),
	}
}

// CommitCache collects the members that committed an identical result.
type CommitCache struct {
	Voters AddressList
	Result CommitResult
}

// Copy returns a deep copy of the cache.
func (c CommitCache) Copy() CommitCache {
	return CommitCache{
		Voters: c.Voters.Copy(),
		Result: c.Result.Copy(),
	}
}

// StrictMajority returns the cache with strictly more voters than every other
// cache. Ties at the maximum yield no majority.
func StrictMajority(caches []CommitCache) (CommitCache, bool) {
	best := -1
	tied := false
	for i, c := range caches {
		switch {
		case best < 0 || len(c.Voters) > len(caches[best].Voters):
			best = i
			tied = false
		case len(c.Voters) == len(caches[best].Voters):
			tied = true
		}
	}
	if best < 0 || tied {
		return CommitCache{}, false
	}
	return caches[best], true
}
