package rest

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/state/controller"
	"github.com/arpa-network/randcast-controller/state/controller/events"
)

// DefaultTaskCacheSize is the number of groups whose latest task is kept.
const DefaultTaskCacheSize = 1000

// TaskCache keeps the latest published DKG task of each group so nodes that
// missed the event can catch up.
type TaskCache struct {
	events.Noop
	tasks *lru.Cache[uint64, randcast.DKGTask]
}

var _ controller.Consumer = (*TaskCache)(nil)

func NewTaskCache(size int) (*TaskCache, error) {
	tasks, err := lru.New[uint64, randcast.DKGTask](size)
	if err != nil {
		return nil, fmt.Errorf("could not create task cache: %w", err)
	}
	return &TaskCache{tasks: tasks}, nil
}

// DKGTaskPublished replaces the cached task of the group.
func (c *TaskCache) DKGTaskPublished(task randcast.DKGTask) {
	c.tasks.Add(task.GroupIndex, task)
}

// ByGroup returns the latest task of the group.
func (c *TaskCache) ByGroup(groupIndex uint64) (randcast.DKGTask, bool) {
	return c.tasks.Get(groupIndex)
}

func (c *TaskCache) GetTask(r *Request, api API) (interface{}, error) {
	index, err := r.Uint64("index")
	if err != nil {
		return nil, err
	}
	// unknown groups are reported as such
	if _, err := api.Group(index); err != nil {
		return nil, err
	}
	task, ok := c.ByGroup(index)
	if !ok {
		return nil, NewNotFoundError(fmt.Sprintf("no task published for group %d", index), fmt.Errorf("no cached task for group %d", index))
	}
	return task, nil
}
