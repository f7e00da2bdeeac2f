package operation

import (
	"github.com/arpa-network/randcast-controller/module/irrecoverable"
	"github.com/arpa-network/randcast-controller/storage"
)

// UpsertByKey encodes the entity and stages it under key, overwriting any
// stored value.
// No errors are expected during normal operation.
func UpsertByKey(w storage.Writer, key []byte, val any) error {
	value, err := encodeEntity(val)
	if err != nil {
		return err
	}

	err = w.Set(key, value)
	if err != nil {
		return irrecoverable.NewExceptionf("failed to store data: %w", err)
	}
	return nil
}

// RemoveByKey stages the removal of key. Removing a key which is not stored
// is a no-op.
// No errors are expected during normal operation.
func RemoveByKey(w storage.Writer, key []byte) error {
	err := w.Delete(key)
	if err != nil {
		return irrecoverable.NewExceptionf("could not delete item: %w", err)
	}
	return nil
}
