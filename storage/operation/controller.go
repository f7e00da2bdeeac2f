package operation

import (
	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/storage"
)

func UpsertNode(w storage.Writer, node *randcast.Node) error {
	return UpsertByKey(w, MakePrefix(codeNode, node.Address), node)
}

func RetrieveNode(r storage.Reader, addr randcast.Address, node *randcast.Node) error {
	return RetrieveByKey(r, MakePrefix(codeNode, addr), node)
}

// FindNodes decodes all stored nodes in address order.
func FindNodes(r storage.Reader, found *[]*randcast.Node) error {
	return TraverseByPrefix(r, MakePrefix(codeNode), func(_ []byte, getValue func(any) error) (bool, error) {
		var node randcast.Node
		err := getValue(&node)
		if err != nil {
			return true, err
		}
		*found = append(*found, &node)
		return false, nil
	}, storage.DefaultIteratorOptions())
}

func UpsertGroup(w storage.Writer, group *randcast.Group) error {
	return UpsertByKey(w, MakePrefix(codeGroup, group.Index), group)
}

func RetrieveGroup(r storage.Reader, index uint64, group *randcast.Group) error {
	return RetrieveByKey(r, MakePrefix(codeGroup, index), group)
}

// FindGroups decodes all stored groups in index order.
func FindGroups(r storage.Reader, found *[]*randcast.Group) error {
	return TraverseByPrefix(r, MakePrefix(codeGroup), func(_ []byte, getValue func(any) error) (bool, error) {
		var group randcast.Group
		err := getValue(&group)
		if err != nil {
			return true, err
		}
		*found = append(*found, &group)
		return false, nil
	}, storage.DefaultIteratorOptions())
}

func UpsertDKGRound(w storage.Writer, round *randcast.DKGRound) error {
	return UpsertByKey(w, MakePrefix(codeDKGRound, round.GroupIndex), round)
}

func RemoveDKGRound(w storage.Writer, groupIndex uint64) error {
	return RemoveByKey(w, MakePrefix(codeDKGRound, groupIndex))
}

func RetrieveDKGRound(r storage.Reader, groupIndex uint64, round *randcast.DKGRound) error {
	return RetrieveByKey(r, MakePrefix(codeDKGRound, groupIndex), round)
}

// FindDKGRounds decodes all stored rounds in group index order.
func FindDKGRounds(r storage.Reader, found *[]*randcast.DKGRound) error {
	return TraverseByPrefix(r, MakePrefix(codeDKGRound), func(_ []byte, getValue func(any) error) (bool, error) {
		var round randcast.DKGRound
		err := getValue(&round)
		if err != nil {
			return true, err
		}
		*found = append(*found, &round)
		return false, nil
	}, storage.DefaultIteratorOptions())
}

func UpsertControllerMeta(w storage.Writer, meta *randcast.ControllerMeta) error {
	return UpsertByKey(w, MakePrefix(codeControllerMeta), meta)
}

func RetrieveControllerMeta(r storage.Reader, meta *randcast.ControllerMeta) error {
	return RetrieveByKey(r, MakePrefix(codeControllerMeta), meta)
}
