package operation

import (
	"errors"
	"fmt"

	"github.com/golang/snappy"
	"github.com/vmihailenco/msgpack/v4"

	"github.com/arpa-network/randcast-controller/module/irrecoverable"
)

var errUncompressedValue = errors.New("could not uncompress data")

// encodeEntity encodes the entity with msgpack and compresses the result
// with snappy.
// possible error to return is irrecoverable.exception
func encodeEntity(entity any) ([]byte, error) {
	val, err := msgpack.Marshal(entity)
	if err != nil {
		return nil, irrecoverable.NewExceptionf("could not encode entity: %w", err)
	}
	return snappy.Encode(nil, val), nil
}

// decodeValue reverses encodeEntity.
// possible error to return is irrecoverable.exception
func decodeValue(val []byte, entity any) error {
	raw, err := snappy.Decode(nil, val)
	if err != nil {
		return irrecoverable.NewExceptionf("%s: %w", err, errUncompressedValue)
	}
	err = msgpack.Unmarshal(raw, entity)
	if err != nil {
		return irrecoverable.NewExceptionf("could not decode entity: %w", err)
	}
	return nil
}

// keyString formats a key for error messages.
func keyString(key []byte) string {
	return fmt.Sprintf("%x", key)
}
