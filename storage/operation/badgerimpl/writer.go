package badgerimpl

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/arpa-network/randcast-controller/storage"
	op "github.com/arpa-network/randcast-controller/storage/operation"
)

// ReaderBatchWriter stages writes in a badger write batch.
type ReaderBatchWriter struct {
	dbReader
	batch *badger.WriteBatch

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

// Commit flushes the batch and notifies the callbacks with the result.
func (b *ReaderBatchWriter) Commit() error {
	err := b.batch.Flush()

	b.callbacks.NotifyCallbacks(err)

	return err
}

// WithReaderBatchWriter runs fn with a new batch and commits it if fn
// succeeds. The callbacks are notified in both cases.
func WithReaderBatchWriter(db *badger.DB, fn func(storage.ReaderBatchWriter) error) error {
	batch := NewReaderBatchWriter(db)

	err := fn(batch)
	if err != nil {
		batch.batch.Cancel()
		batch.callbacks.NotifyCallbacks(err)
		return err
	}

	return batch.Commit()
}

func NewReaderBatchWriter(db *badger.DB) *ReaderBatchWriter {
	return &ReaderBatchWriter{
		dbReader: dbReader{db: db},
		batch:    db.NewWriteBatch(),
	}
}

var _ storage.Writer = (*ReaderBatchWriter)(nil)

func (b *ReaderBatchWriter) Set(key, value []byte) error {
	return b.batch.Set(key, value)
}

func (b *ReaderBatchWriter) Delete(key []byte) error {
	return b.batch.Delete(key)
}
