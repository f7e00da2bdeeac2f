package operation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/storage"
	"github.com/arpa-network/randcast-controller/storage/operation"
	"github.com/arpa-network/randcast-controller/storage/operation/dbtest"
	"github.com/arpa-network/randcast-controller/utils/unittest"
)

func TestNodeInsertRetrieve(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		node := unittest.NodeFixture(unittest.WithFrozenUntil(120))

		var missing randcast.Node
		err := operation.RetrieveNode(db.Reader(), node.Address, &missing)
		require.ErrorIs(t, err, storage.ErrNotFound)

		require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			return operation.UpsertNode(rw.Writer(), node)
		}))

		var actual randcast.Node
		require.NoError(t, operation.RetrieveNode(db.Reader(), node.Address, &actual))
		assert.Equal(t, node, &actual)
	})
}

func TestGroupInsertRetrieve(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		members := unittest.AddressListFixture(4)
		group := unittest.GroupFixture(7, members)
		_, _ = group.Members.Remove(members[1])
		group.Size = 3
		group.Members.SetPartialPublicKey(members[0], []byte{1, 2, 3})
		group.CommitCaches = []randcast.CommitCache{{
			Voters: randcast.AddressList{members[0]},
			Result: randcast.CommitResult{GroupEpoch: 1, PublicKey: []byte{9}, DisqualifiedNodes: randcast.AddressList{members[2]}},
		}}

		require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			return operation.UpsertGroup(rw.Writer(), group)
		}))

		var actual randcast.Group
		require.NoError(t, operation.RetrieveGroup(db.Reader(), 7, &actual))
		assert.Equal(t, group.Members.Addresses(), actual.Members.Addresses())
		assert.Equal(t, group.Members.OccupiedSlots(), actual.Members.OccupiedSlots())
		assert.Equal(t, group.CommitCaches, actual.CommitCaches)
		assert.Equal(t, group.Threshold, actual.Threshold)
		m, ok := actual.Members.At(0)
		require.True(t, ok)
		assert.Equal(t, []byte{1, 2, 3}, m.PartialPublicKey)
	})
}

func TestFindGroups_IndexOrder(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		// indices which sort differently as strings and as numbers
		indices := []uint64{256, 2, 1, 10}
		require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			for _, i := range indices {
				err := operation.UpsertGroup(rw.Writer(), unittest.GroupFixture(i, unittest.AddressListFixture(3)))
				if err != nil {
					return err
				}
			}
			// a node must not show up among the groups
			return operation.UpsertNode(rw.Writer(), unittest.NodeFixture())
		}))

		var groups []*randcast.Group
		require.NoError(t, operation.FindGroups(db.Reader(), &groups))
		require.Len(t, groups, 4)
		for i, want := range []uint64{1, 2, 10, 256} {
			assert.Equal(t, want, groups[i].Index)
		}
	})
}

func TestFindNodes(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		addrs := unittest.SequentialAddressListFixture(5)
		require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			for i := len(addrs) - 1; i >= 0; i-- {
				node := unittest.NodeFixture()
				node.Address = addrs[i]
				if err := operation.UpsertNode(rw.Writer(), node); err != nil {
					return err
				}
			}
			return nil
		}))

		var nodes []*randcast.Node
		require.NoError(t, operation.FindNodes(db.Reader(), &nodes))
		require.Len(t, nodes, 5)
		for i, n := range nodes {
			assert.Equal(t, addrs[i], n.Address)
		}
	})
}

func TestDKGRoundRemove(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		round := unittest.DKGRoundFixture(3, unittest.AddressListFixture(3))
		require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			return operation.UpsertDKGRound(rw.Writer(), round)
		}))

		var actual randcast.DKGRound
		require.NoError(t, operation.RetrieveDKGRound(db.Reader(), 3, &actual))
		assert.Equal(t, round, &actual)

		require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			return operation.RemoveDKGRound(rw.Writer(), 3)
		}))
		err := operation.RetrieveDKGRound(db.Reader(), 3, &actual)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestBatchIsAtomic(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		node := unittest.NodeFixture()
		var notified error
		err := db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			rw.AddCallback(func(err error) { notified = err })
			if err := operation.UpsertNode(rw.Writer(), node); err != nil {
				return err
			}
			return storage.ErrAlreadyExists
		})
		require.ErrorIs(t, err, storage.ErrAlreadyExists)
		require.ErrorIs(t, notified, storage.ErrAlreadyExists)

		exists, err := operation.KeyExists(db.Reader(), operation.MakePrefix(10, node.Address))
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestControllerMeta(t *testing.T) {
	dbtest.RunWithDB(t, func(t *testing.T, db storage.DB) {
		var meta randcast.ControllerMeta
		require.ErrorIs(t, operation.RetrieveControllerMeta(db.Reader(), &meta), storage.ErrNotFound)

		stored := &randcast.ControllerMeta{GlobalEpoch: 12, GroupCount: 3, LastOutput: [32]byte{31: 7}}
		require.NoError(t, db.WithReaderBatchWriter(func(rw storage.ReaderBatchWriter) error {
			return operation.UpsertControllerMeta(rw.Writer(), stored)
		}))
		require.NoError(t, operation.RetrieveControllerMeta(db.Reader(), &meta))
		assert.Equal(t, stored, &meta)
	})
}
