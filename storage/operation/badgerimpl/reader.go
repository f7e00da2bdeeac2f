package badgerimpl

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/dgraph-io/badger/v2"

	"github.com/arpa-network/randcast-controller/storage"
)

type dbReader struct {
	db *badger.DB
}

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

// Get returns a copy of the value stored under key.
// Error returns:
//   - storage.ErrNotFound if the key is not stored
func (b dbReader) Get(key []byte) ([]byte, io.Closer, error) {
	tx := b.db.NewTransaction(false)
	defer tx.Discard()

	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil, storage.ErrNotFound
		}
		return nil, nil, fmt.Errorf("could not load data: %w", err)
	}

	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("could not load value: %w", err)
	}

	return value, noopCloser{}, nil
}

// NewIter returns an iterator over all keys starting with a prefix in
// [startPrefix, endPrefix].
func (b dbReader) NewIter(startPrefix, endPrefix []byte, ops storage.IteratorOption) (storage.Iterator, error) {
	lower, upper := storage.StartEndPrefixToLowerUpperBound(startPrefix, endPrefix)

	tx := b.db.NewTransaction(false)
	options := badger.DefaultIteratorOptions
	if ops.BadgerIterateKeyOnly {
		options.PrefetchValues = false
	}

	return &badgerIterator{
		tx:    tx,
		iter:  tx.NewIterator(options),
		lower: lower,
		upper: upper,
	}, nil
}

type badgerIterator struct {
	tx    *badger.Txn
	iter  *badger.Iterator
	lower []byte
	upper []byte
}

var _ storage.Iterator = (*badgerIterator)(nil)

func (i *badgerIterator) First() bool {
	i.iter.Seek(i.lower)
	return i.Valid()
}

func (i *badgerIterator) Valid() bool {
	if !i.iter.Valid() {
		return false
	}
	if i.upper == nil {
		return true
	}
	return bytes.Compare(i.iter.Item().Key(), i.upper) < 0
}

func (i *badgerIterator) Next() {
	i.iter.Next()
}

func (i *badgerIterator) IterItem() storage.IterItem {
	return i.iter.Item()
}

func (i *badgerIterator) Close() error {
	i.iter.Close()
	i.tx.Discard()
	return nil
}
