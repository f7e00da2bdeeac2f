package store

import (
	"fmt"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/module/metrics"
	"github.com/arpa-network/randcast-controller/storage"
	"github.com/arpa-network/randcast-controller/storage/operation"
)

// DKGRounds implements persistent storage for live DKG rounds.
type DKGRounds struct {
	db    storage.DB
	cache *Cache[uint64, *randcast.DKGRound]
}

var _ storage.DKGRounds = (*DKGRounds)(nil)

func NewDKGRounds(collector module.CacheMetrics, db storage.DB, cacheSize uint) *DKGRounds {
	store := func(rw storage.ReaderBatchWriter, _ uint64, round *randcast.DKGRound) error {
		return operation.UpsertDKGRound(rw.Writer(), round)
	}

	retrieve := func(r storage.Reader, groupIndex uint64) (*randcast.DKGRound, error) {
		var round randcast.DKGRound
		err := operation.RetrieveDKGRound(r, groupIndex, &round)
		return &round, err
	}

	remove := func(rw storage.ReaderBatchWriter, groupIndex uint64) error {
		return operation.RemoveDKGRound(rw.Writer(), groupIndex)
	}

	return &DKGRounds{
		db: db,
		cache: newCache(collector, metrics.ResourceDKGRound,
			withLimit[uint64, *randcast.DKGRound](cacheSize),
			withStore(store),
			withRetrieve(retrieve),
			withRemove[uint64, *randcast.DKGRound](remove)),
	}
}

// BatchStore stages the round. Rounds are immutable once stored.
func (d *DKGRounds) BatchStore(rw storage.ReaderBatchWriter, round *randcast.DKGRound) error {
	return d.cache.PutTx(rw, round.GroupIndex, round)
}

func (d *DKGRounds) BatchRemove(rw storage.ReaderBatchWriter, groupIndex uint64) error {
	return d.cache.RemoveTx(rw, groupIndex)
}

func (d *DKGRounds) ByGroup(groupIndex uint64) (*randcast.DKGRound, error) {
	return d.cache.Get(d.db.Reader(), groupIndex)
}

func (d *DKGRounds) All() ([]*randcast.DKGRound, error) {
	var rounds []*randcast.DKGRound
	err := operation.FindDKGRounds(d.db.Reader(), &rounds)
	if err != nil {
		return nil, fmt.Errorf("could not find dkg rounds: %w", err)
	}
	return rounds, nil
}
