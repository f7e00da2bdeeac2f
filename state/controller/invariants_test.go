package controller_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/state/controller"
	"github.com/arpa-network/randcast-controller/utils/unittest"
)

// Arbitrary interleavings of operations keep every group's threshold in line
// with its size, never seat a node in two groups and never let a group's
// commitments slash nodes outside of it.
func TestInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e, clock := newEngine(t)
		addrs := unittest.SequentialAddressListFixture(24)
		keys := [][]byte{{1}, {2}}

		pickGroup := func() (*randcast.Group, bool) {
			groups := e.Groups()
			if len(groups) == 0 {
				return nil, false
			}
			return groups[rapid.IntRange(0, len(groups)-1).Draw(t, "group")], true
		}
		pickMember := func(g *randcast.Group) randcast.Address {
			members := g.Members.Addresses()
			if len(members) == 0 {
				return rapid.SampledFrom(addrs).Draw(t, "outsider")
			}
			return rapid.SampledFrom(members).Draw(t, "member")
		}

		steps := rapid.IntRange(1, 80).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			var err error
			switch rapid.IntRange(0, 8).Draw(t, "op") {
			case 0, 1, 2:
				err = e.Register(rapid.SampledFrom(addrs).Draw(t, "node"), unittest.DKGKeyFixture())
			case 3:
				err = e.Quit(rapid.SampledFrom(addrs).Draw(t, "node"))
			case 4:
				penalty := rapid.Uint64Range(0, 2000).Draw(t, "penalty")
				blocks := rapid.Uint64Range(0, 20).Draw(t, "blocks")
				err = e.Slash(rapid.SampledFrom(addrs).Draw(t, "node"), penalty, blocks, rapid.Bool().Draw(t, "cascade"))
			case 5:
				err = e.Activate(rapid.SampledFrom(addrs).Draw(t, "node"))
			case 6:
				g, ok := pickGroup()
				if !ok {
					continue
				}
				before := stakes(e)
				err = e.CommitDKG(pickMember(g), controller.CommitParams{
					GroupIndex:        g.Index,
					GroupEpoch:        g.Epoch,
					PublicKey:         rapid.SampledFrom(keys).Draw(t, "key"),
					DisqualifiedNodes: rapid.SliceOfN(rapid.SampledFrom(addrs), 0, 3).Draw(t, "disqualified"),
				})
				if err == nil {
					// only members of the group are slashed, each at most once
					for addr, stake := range stakes(e) {
						if stake < before[addr] {
							require.True(t, g.IsMember(addr), "node %s slashed by group %d", addr.Hex(), g.Index)
							require.LessOrEqual(t, before[addr]-stake, e.Params().DisqualifiedNodePenaltyAmount)
						}
					}
				}
			case 7:
				g, ok := pickGroup()
				if !ok {
					continue
				}
				err = e.PostProcessDKG(pickMember(g), g.Index, g.Epoch)
			case 8:
				clock.Advance(rapid.Uint64Range(1, 30).Draw(t, "blocks"))
				err = e.SetLastOutput(uint256.NewInt(rapid.Uint64().Draw(t, "output")))
			}
			if err != nil {
				require.True(t, controller.IsPreconditionError(err), "unexpected error: %v", err)
			}
			requireConsistent(t, e)
		}
	})
}

func stakes(e *controller.Engine) map[randcast.Address]uint64 {
	stakes := make(map[randcast.Address]uint64)
	for _, n := range e.Nodes() {
		stakes[n.Address] = n.Stake
	}
	return stakes
}
