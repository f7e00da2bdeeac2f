package pebbleimpl

import (
	"github.com/cockroachdb/pebble"

	"github.com/arpa-network/randcast-controller/storage"
	op "github.com/arpa-network/randcast-controller/storage/operation"
)

// ReaderBatchWriter stages writes in a pebble batch.
type ReaderBatchWriter struct {
	dbReader
	batch *pebble.Batch

	callbacks op.Callbacks
}

var _ storage.ReaderBatchWriter = (*ReaderBatchWriter)(nil)

func (b *ReaderBatchWriter) GlobalReader() storage.Reader {
	return b.dbReader
}

func (b *ReaderBatchWriter) Writer() storage.Writer {
	return b
}

func (b *ReaderBatchWriter) AddCallback(callback func(error)) {
	b.callbacks.AddCallback(callback)
}

// Commit writes the batch synchronously and notifies the callbacks with the
// result.
func (b *ReaderBatchWriter) Commit() error {
	err := b.batch.Commit(pebble.Sync)

	b.callbacks.NotifyCallbacks(err)

	return err
}

// WithReaderBatchWriter runs fn with a new batch and commits it if fn
// succeeds. The callbacks are notified in both cases.
func WithReaderBatchWriter(db *pebble.DB, fn func(storage.ReaderBatchWriter) error) error {
	batch := NewReaderBatchWriter(db)
	defer batch.batch.Close()

	err := fn(batch)
	if err != nil {
		batch.callbacks.NotifyCallbacks(err)
		return err
	}

	return batch.Commit()
}

func NewReaderBatchWriter(db *pebble.DB) *ReaderBatchWriter {
	return &ReaderBatchWriter{
		dbReader: dbReader{db: db},
		batch:    db.NewBatch(),
	}
}

var _ storage.Writer = (*ReaderBatchWriter)(nil)

func (b *ReaderBatchWriter) Set(key, value []byte) error {
	return b.batch.Set(key, value, pebble.Sync)
}

func (b *ReaderBatchWriter) Delete(key []byte) error {
	return b.batch.Delete(key, pebble.Sync)
}
