package store

import (
	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/storage"
)

// All bundles the stores the controller persists its state in.
type All struct {
	DB        storage.DB
	Nodes     *Nodes
	Groups    *Groups
	DKGRounds *DKGRounds
	Meta      *ControllerMeta
}

func InitAll(metrics module.CacheMetrics, db storage.DB) *All {
	return &All{
		DB:        db,
		Nodes:     NewNodes(metrics, db, DefaultCacheSize),
		Groups:    NewGroups(metrics, db, DefaultCacheSize),
		DKGRounds: NewDKGRounds(metrics, db, DefaultCacheSize),
		Meta:      NewControllerMeta(db),
	}
}
