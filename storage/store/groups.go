package store

import (
	"fmt"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/module/metrics"
	"github.com/arpa-network/randcast-controller/storage"
	"github.com/arpa-network/randcast-controller/storage/operation"
)

// Groups implements persistent storage for groups.
type Groups struct {
	db    storage.DB
	cache *Cache[uint64, *randcast.Group]
}

var _ storage.Groups = (*Groups)(nil)

func NewGroups(collector module.CacheMetrics, db storage.DB, cacheSize uint) *Groups {
	store := func(rw storage.ReaderBatchWriter, _ uint64, group *randcast.Group) error {
		return operation.UpsertGroup(rw.Writer(), group)
	}

	retrieve := func(r storage.Reader, index uint64) (*randcast.Group, error) {
		var group randcast.Group
		err := operation.RetrieveGroup(r, index, &group)
		return &group, err
	}

	return &Groups{
		db: db,
		cache: newCache(collector, metrics.ResourceGroup,
			withLimit[uint64, *randcast.Group](cacheSize),
			withStore(store),
			withRetrieve(retrieve)),
	}
}

func (g *Groups) BatchStore(rw storage.ReaderBatchWriter, group *randcast.Group) error {
	return g.cache.PutTx(rw, group.Index, group.Copy())
}

func (g *Groups) ByIndex(index uint64) (*randcast.Group, error) {
	group, err := g.cache.Get(g.db.Reader(), index)
	if err != nil {
		return nil, err
	}
	return group.Copy(), nil
}

func (g *Groups) All() ([]*randcast.Group, error) {
	var groups []*randcast.Group
	err := operation.FindGroups(g.db.Reader(), &groups)
	if err != nil {
		return nil, fmt.Errorf("could not find groups: %w", err)
	}
	return groups, nil
}
