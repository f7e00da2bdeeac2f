package randcast

import (
	"github.com/ethereum/go-ethereum/common"
)

// Address is the account address a node registers and submits operations with.
type Address = common.Address

// ZeroAddress is the empty address. No registered node ever has it.
var ZeroAddress = Address{}

// HexToAddress parses a hex encoded address, with or without 0x prefix.
func HexToAddress(s string) Address {
	return common.HexToAddress(s)
}

// IsHexAddress verifies whether a string can represent a valid hex-encoded address.
func IsHexAddress(s string) bool {
	return common.IsHexAddress(s)
}

// AddressList is an ordered list of node addresses.
type AddressList []Address

// Contains returns true if the list contains the given address.
func (l AddressList) Contains(addr Address) bool {
	return l.Index(addr) >= 0
}

// Index returns the position of the address in the list, or -1.
func (l AddressList) Index(addr Address) int {
	for i, a := range l {
		if a == addr {
			return i
		}
	}
	return -1
}

// Equal compares two lists element-wise. Order matters.
func (l AddressList) Equal(other AddressList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// Copy returns a copy of the list which does not share the backing array.
func (l AddressList) Copy() AddressList {
	if l == nil {
		return nil
	}
	dup := make(AddressList, len(l))
	copy(dup, l)
	return dup
}

// Without returns the addresses of l that are not contained in exclude,
// keeping the order of l.
func (l AddressList) Without(exclude AddressList) AddressList {
	out := make(AddressList, 0, len(l))
	for _, a := range l {
		if !exclude.Contains(a) {
			out = append(out, a)
		}
	}
	return out
}
