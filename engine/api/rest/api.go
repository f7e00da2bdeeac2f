package rest

import (
	"github.com/holiman/uint256"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/state/controller"
)

// API is the part of the controller engine served over REST.
type API interface {
	Node(addr randcast.Address) (*randcast.Node, error)
	Nodes() []*randcast.Node
	StakeOf(addr randcast.Address) (uint64, uint64, error)
	Group(index uint64) (*randcast.Group, error)
	Groups() []*randcast.Group
	Member(groupIndex uint64, slot int) (randcast.Member, error)
	Coordinator(groupIndex uint64) (module.PhaseCoordinator, error)
	GlobalEpoch() uint64
	LastOutput() *uint256.Int

	Register(addr randcast.Address, dkgPublicKey []byte) error
	CommitDKG(caller randcast.Address, params controller.CommitParams) error
	PostProcessDKG(caller randcast.Address, groupIndex uint64, groupEpoch uint64) error
}

var _ API = (*controller.Engine)(nil)
