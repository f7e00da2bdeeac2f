package storage

import (
	"io"
)

// Reader is a read-only view of the key-value store.
type Reader interface {
	// Get returns the value stored under key. The value is only valid until
	// closer is closed.
	// Error returns:
	//   - ErrNotFound if the key is not stored
	Get(key []byte) (value []byte, closer io.Closer, err error)

	// NewIter returns an iterator over all keys starting with a prefix in
	// [startPrefix, endPrefix], both inclusive, in ascending key order.
	NewIter(startPrefix, endPrefix []byte, ops IteratorOption) (Iterator, error)
}

// Iterator walks a range of keys. It must be closed after use.
type Iterator interface {
	// First seeks to the smallest key of the range and returns true if
	// there is one.
	First() bool
	Valid() bool
	Next()
	IterItem() IterItem
	io.Closer
}

// IterItem is the key-value pair an iterator is positioned at.
type IterItem interface {
	Key() []byte
	// Value calls fn with the value. The value is only valid within fn.
	Value(fn func(val []byte) error) error
}

type IteratorOption struct {
	BadgerIterateKeyOnly bool
}

func DefaultIteratorOptions() IteratorOption {
	return IteratorOption{}
}

// Writer stages writes in a batch.
type Writer interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// ReaderBatchWriter gives access to the committed state through GlobalReader
// while staging writes in a batch that is committed atomically. Writes are not
// visible to GlobalReader before the batch is committed.
type ReaderBatchWriter interface {
	GlobalReader() Reader
	Writer() Writer

	// AddCallback registers a callback invoked with the commit result. It is
	// used to update caches only once the data is persisted.
	AddCallback(func(error))
}

// DB is the key-value store the controller persists its state in.
type DB interface {
	Reader() Reader

	// WithReaderBatchWriter runs fn with a fresh batch and commits the batch
	// if fn succeeds. Nothing is written if fn returns an error.
	WithReaderBatchWriter(fn func(ReaderBatchWriter) error) error

	io.Closer
}

// PrefixUpperBound returns the smallest key greater than all keys starting
// with prefix, or nil if there is none (prefix is all 0xff).
func PrefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// StartEndPrefixToLowerUpperBound converts the inclusive prefix range
// [startPrefix, endPrefix] to the key range [lower, upper).
func StartEndPrefixToLowerUpperBound(startPrefix, endPrefix []byte) (lower, upper []byte) {
	return startPrefix, PrefixUpperBound(endPrefix)
}
