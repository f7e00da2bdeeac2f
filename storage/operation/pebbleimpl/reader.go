package pebbleimpl

import (
	"errors"
	"fmt"
	"io"

	"github.com/cockroachdb/pebble"

	"github.com/arpa-network/randcast-controller/storage"
)

type dbReader struct {
	db *pebble.DB
}

// Get returns the value stored under key. The value is valid until the
// closer is closed.
// Error returns:
//   - storage.ErrNotFound if the key is not stored
func (b dbReader) Get(key []byte) ([]byte, io.Closer, error) {
	value, closer, err := b.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil, storage.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to get value: %w", err)
	}
	return value, closer, nil
}

// NewIter returns an iterator over all keys starting with a prefix in
// [startPrefix, endPrefix].
func (b dbReader) NewIter(startPrefix, endPrefix []byte, _ storage.IteratorOption) (storage.Iterator, error) {
	lower, upper := storage.StartEndPrefixToLowerUpperBound(startPrefix, endPrefix)

	iter, err := b.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: upper,
	})
	if err != nil {
		return nil, fmt.Errorf("can not create iterator: %w", err)
	}
	return &pebbleIterator{iter: iter}, nil
}

type pebbleIterator struct {
	iter *pebble.Iterator
}

var _ storage.Iterator = (*pebbleIterator)(nil)

func (i *pebbleIterator) First() bool {
	return i.iter.First()
}

func (i *pebbleIterator) Valid() bool {
	return i.iter.Valid()
}

func (i *pebbleIterator) Next() {
	i.iter.Next()
}

func (i *pebbleIterator) IterItem() storage.IterItem {
	return pebbleIterItem{iter: i.iter}
}

func (i *pebbleIterator) Close() error {
	return i.iter.Close()
}

type pebbleIterItem struct {
	iter *pebble.Iterator
}

func (i pebbleIterItem) Key() []byte {
	return i.iter.Key()
}

func (i pebbleIterItem) Value(fn func([]byte) error) error {
	val, err := i.iter.ValueAndErr()
	if err != nil {
		return err
	}
	return fn(val)
}
