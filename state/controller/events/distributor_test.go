package events_test

import (
	"testing"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/state/controller/events"
	"github.com/arpa-network/randcast-controller/state/controller/mock"
	"github.com/arpa-network/randcast-controller/utils/unittest"
)

func TestDistributor(t *testing.T) {
	first := mock.NewConsumer(t)
	second := mock.NewConsumer(t)

	d := events.NewDistributor()
	d.AddConsumer(first)
	d.AddConsumer(second)
	d.AddConsumer(events.NewNoop())

	task := randcast.DKGTask{GroupIndex: 1, Epoch: 2, Size: 3, Threshold: 2, Members: unittest.AddressListFixture(3)}
	node := unittest.AddressFixture()
	for _, c := range []*mock.Consumer{first, second} {
		c.On("DKGTaskPublished", task).Once()
		c.On("GroupVoided", uint64(1), uint64(2)).Once()
		c.On("NodeSlashed", node, uint64(10), uint64(20)).Once()
		c.On("NodeFrozen", node, uint64(30)).Once()
	}

	d.DKGTaskPublished(task)
	d.GroupVoided(1, 2)
	d.NodeSlashed(node, 10, 20)
	d.NodeFrozen(node, 30)
}
