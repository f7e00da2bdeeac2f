package unittest

import (
	crand "crypto/rand"

	"github.com/arpa-network/randcast-controller/model/randcast"
)

const DefaultDKGKeyLength = 96

func RandomBytes(n int) []byte {
	b := make([]byte, n)
	read, err := crand.Read(b)
	if err != nil {
		panic("cannot read random bytes")
	}
	if read != n {
		panic("could not read enough random bytes")
	}
	return b
}

func AddressFixture() randcast.Address {
	var addr randcast.Address
	_, _ = crand.Read(addr[:])
	return addr
}

// AddressListFixture returns n distinct random addresses.
func AddressListFixture(n int) randcast.AddressList {
	list := make(randcast.AddressList, 0, n)
	for len(list) < n {
		addr := AddressFixture()
		if addr == randcast.ZeroAddress || list.Contains(addr) {
			continue
		}
		list = append(list, addr)
	}
	return list
}

// SequentialAddressFixture returns the address with the big-endian
// encoding of i in its last bytes. Address order follows i.
func SequentialAddressFixture(i uint32) randcast.Address {
	var addr randcast.Address
	addr[16] = byte(i >> 24)
	addr[17] = byte(i >> 16)
	addr[18] = byte(i >> 8)
	addr[19] = byte(i)
	return addr
}

// SequentialAddressListFixture returns the addresses 1..n in order.
func SequentialAddressListFixture(n int) randcast.AddressList {
	list := make(randcast.AddressList, 0, n)
	for i := 1; i <= n; i++ {
		list = append(list, SequentialAddressFixture(uint32(i)))
	}
	return list
}

func DKGKeyFixture() []byte {
	return RandomBytes(DefaultDKGKeyLength)
}

func WithStake(stake uint64) func(*randcast.Node) {
	return func(n *randcast.Node) {
		n.Stake = stake
	}
}

func WithFrozenUntil(height uint64) func(*randcast.Node) {
	return func(n *randcast.Node) {
		n.Active = false
		n.PendingUntilBlock = height
	}
}

// NodeFixture returns an active registered node with a random address.
func NodeFixture(opts ...func(*randcast.Node)) *randcast.Node {
	node := &randcast.Node{
		Address:      AddressFixture(),
		DKGPublicKey: DKGKeyFixture(),
		Active:       true,
		Stake:        50000,
	}
	for _, apply := range opts {
		apply(node)
	}
	return node
}

// GroupFixture returns a group seating the given members, with the
// threshold computed for the default floor of 2.
func GroupFixture(index uint64, members randcast.AddressList) *randcast.Group {
	g := randcast.NewGroup(index)
	for _, m := range members {
		g.Members.Add(m)
	}
	g.Size = len(members)
	g.Threshold = randcast.ComputeThreshold(g.Size, 2)
	g.Epoch = 1
	return g
}

func DKGRoundFixture(groupIndex uint64, members randcast.AddressList) *randcast.DKGRound {
	return &randcast.DKGRound{
		GroupIndex:         groupIndex,
		GroupEpoch:         1,
		GlobalEpoch:        1,
		Threshold:          randcast.ComputeThreshold(len(members), 2),
		PhaseDuration:      10,
		StartBlock:         100,
		CoordinatorAddress: AddressFixture(),
		Members:            members.Copy(),
		Keys:               [][]byte{DKGKeyFixture()},
	}
}
