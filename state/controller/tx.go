package controller

import (
	"github.com/holiman/uint256"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/module/irrecoverable"
	"github.com/arpa-network/randcast-controller/storage"
)

// tx is the undo log of one operation. Every entity is recorded before its
// first change; the recorded entities are the ones persisted on commit and
// restored on rollback.
type tx struct {
	e         *Engine
	operation string
	height    uint64
	seed      [32]byte

	nodes        map[randcast.Address]*randcast.Node
	groups       map[uint64]*randcast.Group
	groupCount   int
	coordinators map[uint64]coordinatorEntry
	globalEpoch  uint64
	lastOutput   *uint256.Int

	// retired coordinators are destroyed once the operation is committed.
	retired []module.PhaseCoordinator
	// effects run after the operation was committed, in order.
	effects []func()
}

type coordinatorEntry struct {
	coordinator module.PhaseCoordinator
	ok          bool
}

func (e *Engine) begin(operation string) *tx {
	return &tx{
		e:            e,
		operation:    operation,
		height:       e.chain.Height(),
		seed:         e.seeds.Seed(),
		nodes:        make(map[randcast.Address]*randcast.Node),
		groups:       make(map[uint64]*randcast.Group),
		groupCount:   len(e.groups),
		coordinators: make(map[uint64]coordinatorEntry),
		globalEpoch:  e.globalEpoch,
	}
}

func (tx *tx) effect(f func()) {
	tx.effects = append(tx.effects, f)
}

// node returns the node for reading, nil if it is not registered.
func (tx *tx) node(addr randcast.Address) *randcast.Node {
	return tx.e.nodes[addr]
}

// mutNode returns the node for writing. The node must be registered.
func (tx *tx) mutNode(addr randcast.Address) *randcast.Node {
	n := tx.e.nodes[addr]
	if _, recorded := tx.nodes[addr]; !recorded {
		tx.nodes[addr] = n.Copy()
	}
	return n
}

func (tx *tx) createNode(node *randcast.Node) {
	tx.nodes[node.Address] = nil
	tx.e.nodes[node.Address] = node
}

// mutGroup returns the group for writing. The group must exist.
func (tx *tx) mutGroup(index uint64) *randcast.Group {
	g := tx.e.groups[index]
	if _, recorded := tx.groups[index]; !recorded {
		if int(index) < tx.groupCount {
			tx.groups[index] = g.Copy()
		} else {
			tx.groups[index] = nil
		}
	}
	return g
}

func (tx *tx) createGroup() *randcast.Group {
	index := uint64(len(tx.e.groups))
	g := randcast.NewGroup(index)
	tx.e.groups = append(tx.e.groups, g)
	tx.groups[index] = nil

	total := len(tx.e.groups)
	tx.effect(func() {
		tx.e.log.Info().Uint64("group_index", index).Msg("group created")
		tx.e.metrics.GroupCreated(total)
	})
	return g
}

func (tx *tx) recordCoordinator(groupIndex uint64) {
	if _, recorded := tx.coordinators[groupIndex]; recorded {
		return
	}
	c, ok := tx.e.coordinators[groupIndex]
	tx.coordinators[groupIndex] = coordinatorEntry{coordinator: c, ok: ok}
}

// retireCoordinator unregisters the coordinator of the group, if any. It is
// destroyed on commit.
func (tx *tx) retireCoordinator(groupIndex uint64) {
	tx.recordCoordinator(groupIndex)
	c, ok := tx.e.coordinators[groupIndex]
	if !ok {
		return
	}
	delete(tx.e.coordinators, groupIndex)
	tx.retired = append(tx.retired, c)
}

func (tx *tx) setCoordinator(groupIndex uint64, c module.PhaseCoordinator) {
	tx.recordCoordinator(groupIndex)
	tx.e.coordinators[groupIndex] = c
}

// commit persists the recorded entities and destroys retired coordinators.
func (tx *tx) commit() error {
	e := tx.e
	if e.stores != nil {
		err := e.stores.DB.WithReaderBatchWriter(tx.persist)
		if err != nil {
			return irrecoverable.NewExceptionf("could not persist %s: %w", tx.operation, err)
		}
	}

	if tx.lastOutput != nil {
		e.lastOutput.Set(tx.lastOutput)
	}
	for _, c := range tx.retired {
		c.SelfDestruct()
	}
	return nil
}

func (tx *tx) persist(rw storage.ReaderBatchWriter) error {
	e := tx.e
	for addr := range tx.nodes {
		err := e.stores.Nodes.BatchStore(rw, e.nodes[addr])
		if err != nil {
			return err
		}
	}
	for index := range tx.groups {
		err := e.stores.Groups.BatchStore(rw, e.groups[index])
		if err != nil {
			return err
		}
	}
	for index := range tx.coordinators {
		c, ok := e.coordinators[index]
		if !ok {
			err := e.stores.DKGRounds.BatchRemove(rw, index)
			if err != nil {
				return err
			}
			continue
		}
		err := e.stores.DKGRounds.BatchStore(rw, roundOf(c))
		if err != nil {
			return err
		}
	}

	meta := &randcast.ControllerMeta{
		GlobalEpoch: e.globalEpoch,
		GroupCount:  uint64(len(e.groups)),
		LastOutput:  e.lastOutput.Seed(),
		Height:      tx.height,
	}
	if tx.lastOutput != nil {
		meta.LastOutput = tx.lastOutput.Bytes32()
	}
	return e.stores.Meta.BatchStore(rw, meta)
}

// rollback restores the state from before the operation.
func (tx *tx) rollback() {
	e := tx.e
	for addr, pre := range tx.nodes {
		if pre == nil {
			delete(e.nodes, addr)
			continue
		}
		e.nodes[addr] = pre
	}

	e.groups = e.groups[:tx.groupCount]
	for index, pre := range tx.groups {
		if pre != nil {
			e.groups[index] = pre
		}
	}

	for index, entry := range tx.coordinators {
		if entry.ok {
			e.coordinators[index] = entry.coordinator
		} else {
			delete(e.coordinators, index)
		}
	}
	e.globalEpoch = tx.globalEpoch

	tx.e.log.Debug().Str("operation", tx.operation).Msg("operation rolled back")
}

func roundOf(c module.PhaseCoordinator) *randcast.DKGRound {
	params := c.Params()
	_, keys := c.DKGKeys()
	return &randcast.DKGRound{
		GroupIndex:         params.GroupIndex,
		GroupEpoch:         params.GroupEpoch,
		GlobalEpoch:        params.GlobalEpoch,
		Threshold:          params.Threshold,
		PhaseDuration:      params.PhaseDuration,
		StartBlock:         params.StartBlock,
		CoordinatorAddress: c.Address(),
		Members:            c.Participants(),
		Keys:               keys,
	}
}
