package events

import (
	"sync"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/state/controller"
)

// Distributor distributes controller events to a list of subscribers.
type Distributor struct {
	subscribers []controller.Consumer
	mu          sync.RWMutex
}

var _ controller.Consumer = (*Distributor)(nil)

func NewDistributor() *Distributor {
	return &Distributor{}
}

func (d *Distributor) AddConsumer(consumer controller.Consumer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, consumer)
}

func (d *Distributor) DKGTaskPublished(task randcast.DKGTask) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sub := range d.subscribers {
		sub.DKGTaskPublished(task)
	}
}

func (d *Distributor) GroupConsensusReached(groupIndex uint64, groupEpoch uint64, publicKey []byte, committers randcast.AddressList) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sub := range d.subscribers {
		sub.GroupConsensusReached(groupIndex, groupEpoch, publicKey, committers)
	}
}

func (d *Distributor) GroupVoided(groupIndex uint64, groupEpoch uint64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sub := range d.subscribers {
		sub.GroupVoided(groupIndex, groupEpoch)
	}
}

func (d *Distributor) NodeSlashed(node randcast.Address, penalty uint64, stake uint64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sub := range d.subscribers {
		sub.NodeSlashed(node, penalty, stake)
	}
}

func (d *Distributor) NodeFrozen(node randcast.Address, pendingUntilBlock uint64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sub := range d.subscribers {
		sub.NodeFrozen(node, pendingUntilBlock)
	}
}
