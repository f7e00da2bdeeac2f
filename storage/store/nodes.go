package store

import (
	"fmt"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/module/metrics"
	"github.com/arpa-network/randcast-controller/storage"
	"github.com/arpa-network/randcast-controller/storage/operation"
)

// Nodes implements persistent storage for registered nodes.
type Nodes struct {
	db    storage.DB
	cache *Cache[randcast.Address, *randcast.Node]
}

var _ storage.Nodes = (*Nodes)(nil)

func NewNodes(collector module.CacheMetrics, db storage.DB, cacheSize uint) *Nodes {
	store := func(rw storage.ReaderBatchWriter, _ randcast.Address, node *randcast.Node) error {
		return operation.UpsertNode(rw.Writer(), node)
	}

	retrieve := func(r storage.Reader, addr randcast.Address) (*randcast.Node, error) {
		var node randcast.Node
		err := operation.RetrieveNode(r, addr, &node)
		return &node, err
	}

	return &Nodes{
		db: db,
		cache: newCache(collector, metrics.ResourceNode,
			withLimit[randcast.Address, *randcast.Node](cacheSize),
			withStore(store),
			withRetrieve(retrieve)),
	}
}

// BatchStore stages a copy of the node, so later changes of the caller do
// not leak into the cache.
func (n *Nodes) BatchStore(rw storage.ReaderBatchWriter, node *randcast.Node) error {
	return n.cache.PutTx(rw, node.Address, node.Copy())
}

// ByAddress returns a copy of the stored node.
func (n *Nodes) ByAddress(addr randcast.Address) (*randcast.Node, error) {
	node, err := n.cache.Get(n.db.Reader(), addr)
	if err != nil {
		return nil, err
	}
	return node.Copy(), nil
}

func (n *Nodes) All() ([]*randcast.Node, error) {
	var nodes []*randcast.Node
	err := operation.FindNodes(n.db.Reader(), &nodes)
	if err != nil {
		return nil, fmt.Errorf("could not find nodes: %w", err)
	}
	return nodes, nil
}
