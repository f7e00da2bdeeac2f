package logging

import (
	"github.com/arpa-network/randcast-controller/model/randcast"
)

// Addresses returns the hex encoding of the addresses, for log fields.
func Addresses(addrs randcast.AddressList) []string {
	ss := make([]string, 0, len(addrs))
	for _, a := range addrs {
		ss = append(ss, a.Hex())
	}
	return ss
}
