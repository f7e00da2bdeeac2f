package events

import (
	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/state/controller"
)

type Noop struct{}

var _ controller.Consumer = (*Noop)(nil)

func NewNoop() *Noop {
	return &Noop{}
}

func (n Noop) DKGTaskPublished(randcast.DKGTask) {}

func (n Noop) GroupConsensusReached(uint64, uint64, []byte, randcast.AddressList) {}

func (n Noop) GroupVoided(uint64, uint64) {}

func (n Noop) NodeSlashed(randcast.Address, uint64, uint64) {}

func (n Noop) NodeFrozen(randcast.Address, uint64) {}
