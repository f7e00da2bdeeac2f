package operation

import (
	"encoding/binary"
	"fmt"

	"github.com/arpa-network/randcast-controller/model/randcast"
)

const (

	// codes for controller-wide singletons
	codeControllerMeta = 1

	// codes for entities
	codeNode     = 10
	codeGroup    = 11
	codeDKGRound = 12
)

// MakePrefix builds a key from a one byte code followed by the binary
// encoding of the key parts.
func MakePrefix(code byte, keys ...any) []byte {
	prefix := make([]byte, 1)
	prefix[0] = code
	for _, key := range keys {
		prefix = append(prefix, EncodeKeyPart(key)...)
	}
	return prefix
}

// EncodeKeyPart encodes a key part. Integers are big-endian so that numeric
// order is key order.
func EncodeKeyPart(v any) []byte {
	switch i := v.(type) {
	case uint8:
		return []byte{i}
	case uint32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, i)
		return b
	case uint64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, i)
		return b
	case string:
		return []byte(i)
	case randcast.Address:
		return i[:]
	case []byte:
		return i
	default:
		panic(fmt.Sprintf("unsupported type to convert (%T)", v))
	}
}
