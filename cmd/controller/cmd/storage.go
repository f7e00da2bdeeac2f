package cmd

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/dgraph-io/badger/v2"

	"github.com/arpa-network/randcast-controller/config"
	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/state/controller"
	"github.com/arpa-network/randcast-controller/storage"
	"github.com/arpa-network/randcast-controller/storage/operation/badgerimpl"
	"github.com/arpa-network/randcast-controller/storage/operation/pebbleimpl"
	"github.com/arpa-network/randcast-controller/storage/store"
)

// openDB opens the database of the configured backend.
func openDB(cfg config.StorageConfig) (storage.DB, error) {
	switch cfg.Backend {
	case "badger":
		db, err := badger.Open(badger.DefaultOptions(cfg.Dir).WithLogger(nil))
		if err != nil {
			return nil, fmt.Errorf("could not open badger db at %s: %w", cfg.Dir, err)
		}
		return badgerimpl.ToDB(db), nil
	case "pebble":
		db, err := pebble.Open(cfg.Dir, &pebble.Options{})
		if err != nil {
			return nil, fmt.Errorf("could not open pebble db at %s: %w", cfg.Dir, err)
		}
		return pebbleimpl.ToDB(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// initStores opens the database and its stores. The caller closes the
// returned database.
func initStores(cfg config.StorageConfig, metrics module.CacheMetrics) (*store.All, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	return store.InitAll(metrics, db), nil
}

func controllerStores(all *store.All) controller.Stores {
	return controller.Stores{
		DB:        all.DB,
		Nodes:     all.Nodes,
		Groups:    all.Groups,
		DKGRounds: all.DKGRounds,
		Meta:      all.Meta,
	}
}
