package operation_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpa-network/randcast-controller/storage"
	"github.com/arpa-network/randcast-controller/storage/operation"
	"github.com/arpa-network/randcast-controller/storage/operation/dbtest"
)

type Entity struct {
	ID uint64
}

func (e Entity) Key() []byte {
	return operation.MakePrefix(200, e.ID)
}

func upsert(t *testing.T, db storage.DB, key []byte, val any) {
	require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
		return operation.UpsertByKey(rw.Writer(), key, val)
	}))
}

func TestReadWrite(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		e := Entity{ID: 1337}

		var item Entity
		err := operation.RetrieveByKey(db.Reader(), e.Key(), &item)
		require.True(t, errors.Is(err, storage.ErrNotFound), "expected not found error")

		upsert(t, db, e.Key(), e)

		var readBack Entity
		require.NoError(t, operation.RetrieveByKey(db.Reader(), e.Key(), &readBack))
		require.Equal(t, e, readBack)

		// writing again overwrites
		overwrite := Entity{ID: 42}
		upsert(t, db, e.Key(), overwrite)
		require.NoError(t, operation.RetrieveByKey(db.Reader(), e.Key(), &readBack))
		require.Equal(t, overwrite, readBack)

		other := Entity{ID: 84}
		upsert(t, db, other.Key(), other)
		var otherReadBack Entity
		require.NoError(t, operation.RetrieveByKey(db.Reader(), other.Key(), &otherReadBack))
		require.Equal(t, other, otherReadBack)
	})
}

func TestRemove(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		e := Entity{ID: 7}

		exists, err := operation.KeyExists(db.Reader(), e.Key())
		require.NoError(t, err)
		assert.False(t, exists)

		upsert(t, db, e.Key(), e)
		exists, err = operation.KeyExists(db.Reader(), e.Key())
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			return operation.RemoveByKey(rw.Writer(), e.Key())
		}))
		exists, err = operation.KeyExists(db.Reader(), e.Key())
		require.NoError(t, err)
		assert.False(t, exists)

		// removing a missing key is not an error
		require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			return operation.RemoveByKey(rw.Writer(), e.Key())
		}))
	})
}

func TestTraverseByPrefix(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		// inserted out of order, read back in key order
		for _, id := range []uint64{3, 1, 2} {
			upsert(t, db, Entity{ID: id}.Key(), Entity{ID: id})
		}
		upsert(t, db, operation.MakePrefix(201, uint64(1)), Entity{ID: 99})

		var ids []uint64
		err := operation.TraverseByPrefix(db.Reader(), operation.MakePrefix(200), func(key []byte, getValue func(any) error) (bool, error) {
			var e Entity
			if err := getValue(&e); err != nil {
				return true, err
			}
			assert.Equal(t, e.ID, binary.BigEndian.Uint64(key[1:]))
			ids = append(ids, e.ID)
			return false, nil
		}, storage.DefaultIteratorOptions())
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 2, 3}, ids)

		// bailing stops the iteration
		ids = nil
		err = operation.TraverseByPrefix(db.Reader(), operation.MakePrefix(200), func(key []byte, getValue func(any) error) (bool, error) {
			ids = append(ids, binary.BigEndian.Uint64(key[1:]))
			return len(ids) == 2, nil
		}, storage.DefaultIteratorOptions())
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 2}, ids)
	})
}
