// Package dbtest runs storage tests against every backend.
package dbtest

import (
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/dgraph-io/badger/v2"

	"github.com/arpa-network/randcast-controller/storage"
	"github.com/arpa-network/randcast-controller/storage/operation/badgerimpl"
	"github.com/arpa-network/randcast-controller/storage/operation/pebbleimpl"
	"github.com/arpa-network/randcast-controller/utils/unittest"
)

// RunWithDB runs f once with a badger and once with a pebble database.
func RunWithDB(t *testing.T, f func(t *testing.T, db storage.DB)) {
	t.Run("BadgerStorage", func(t *testing.T) {
		unittest.RunWithBadgerDB(t, func(db *badger.DB) {
			f(t, badgerimpl.ToDB(db))
		})
	})

	t.Run("PebbleStorage", func(t *testing.T) {
		unittest.RunWithPebbleDB(t, func(db *pebble.DB) {
			f(t, pebbleimpl.ToDB(db))
		})
	})
}
