package operation

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/arpa-network/randcast-controller/module/irrecoverable"
	"github.com/arpa-network/randcast-controller/storage"
	"github.com/arpa-network/randcast-controller/utils/merr"
)

// IterationFunc is called on each key-value pair during iteration. The key is
// a copy and may be retained. getValue decodes the current value into destVal.
// Returning (true, nil) stops the iteration early.
type IterationFunc func(keyCopy []byte, getValue func(destVal any) error) (bail bool, err error)

// IterateKeys iterates over all entries whose key starts with a prefix in
// [startPrefix, endPrefix], both inclusive. Errors of iterFunc abort the
// iteration and are returned.
// No errors expected during normal operations.
func IterateKeys(r storage.Reader, startPrefix []byte, endPrefix []byte, iterFunc IterationFunc, opt storage.IteratorOption) (errToReturn error) {
	if len(startPrefix) == 0 {
		return fmt.Errorf("startPrefix prefix is empty")
	}
	if len(endPrefix) == 0 {
		return fmt.Errorf("endPrefix prefix is empty")
	}
	if bytes.Compare(startPrefix, endPrefix) > 0 {
		return fmt.Errorf("startPrefix key must be less than or equal to endPrefix key")
	}

	it, err := r.NewIter(startPrefix, endPrefix, opt)
	if err != nil {
		return fmt.Errorf("can not create iterator: %w", err)
	}
	defer func() {
		errToReturn = merr.CloseAndMergeError(it, errToReturn)
	}()

	for it.First(); it.Valid(); it.Next() {
		item := it.IterItem()
		key := item.Key()

		// the backend may reuse the key memory
		keyCopy := make([]byte, len(key))
		copy(keyCopy, key)

		bail, err := iterFunc(keyCopy, func(destVal any) error {
			return item.Value(func(val []byte) error {
				return decodeValue(val, destVal)
			})
		})
		if err != nil {
			return err
		}
		if bail {
			return nil
		}
	}

	return nil
}

// TraverseByPrefix iterates over all entries whose key starts with prefix.
func TraverseByPrefix(r storage.Reader, prefix []byte, iterFunc IterationFunc, opt storage.IteratorOption) error {
	return IterateKeys(r, prefix, prefix, iterFunc, opt)
}

// KeyExists returns true if the key is stored.
// No errors are expected during normal operation.
func KeyExists(r storage.Reader, key []byte) (exist bool, errToReturn error) {
	_, closer, err := r.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, irrecoverable.NewExceptionf("could not load data: %w", err)
	}
	defer func() {
		errToReturn = merr.CloseAndMergeError(closer, errToReturn)
	}()

	return true, nil
}

// RetrieveByKey decodes the value stored under key into entity, which must be
// a pointer to an initialized entity of the correct type.
// Error returns:
//   - storage.ErrNotFound if the key is not stored
//   - exception in case of a failing backend or an undecodable value
func RetrieveByKey(r storage.Reader, key []byte, entity any) (errToReturn error) {
	val, closer, err := r.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("could not find key %s: %w", keyString(key), err)
		}
		return irrecoverable.NewExceptionf("could not load key %s: %w", keyString(key), err)
	}
	defer func() {
		errToReturn = merr.CloseAndMergeError(closer, errToReturn)
	}()

	return decodeValue(val, entity)
}
