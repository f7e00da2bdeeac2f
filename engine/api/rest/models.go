package rest

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
)

// ModelError is the body of every error response.
type ModelError struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

type Node struct {
	Address           randcast.Address `json:"address"`
	DKGPublicKey      hexutil.Bytes    `json:"dkg_public_key"`
	Active            bool             `json:"active"`
	PendingUntilBlock uint64           `json:"pending_until_block"`
	Stake             uint64           `json:"stake"`
	Reward            uint64           `json:"reward"`
}

func (n *Node) Build(node *randcast.Node) {
	n.Address = node.Address
	n.DKGPublicKey = node.DKGPublicKey
	n.Active = node.Active
	n.PendingUntilBlock = node.PendingUntilBlock
	n.Stake = node.Stake
	n.Reward = node.Reward
}

type Stake struct {
	Address randcast.Address `json:"address"`
	Stake   uint64           `json:"stake"`
	Reward  uint64           `json:"reward"`
}

type Member struct {
	Slot             int              `json:"slot"`
	Address          randcast.Address `json:"address"`
	PartialPublicKey hexutil.Bytes    `json:"partial_public_key"`
}

type CommitCache struct {
	Voters            randcast.AddressList `json:"voters"`
	GroupEpoch        uint64               `json:"group_epoch"`
	PublicKey         hexutil.Bytes        `json:"public_key"`
	DisqualifiedNodes randcast.AddressList `json:"disqualified_nodes"`
}

type Group struct {
	Index            uint64               `json:"index"`
	Epoch            uint64               `json:"epoch"`
	Size             int                  `json:"size"`
	Threshold        int                  `json:"threshold"`
	Members          []Member             `json:"members"`
	Committers       randcast.AddressList `json:"committers"`
	CommitCaches     []CommitCache        `json:"commit_caches"`
	ConsensusReached bool                 `json:"consensus_reached"`
	PublicKey        hexutil.Bytes        `json:"public_key"`
}

func (g *Group) Build(group *randcast.Group) {
	g.Index = group.Index
	g.Epoch = group.Epoch
	g.Size = group.Size
	g.Threshold = group.Threshold
	g.ConsensusReached = group.ConsensusReached
	g.PublicKey = group.PublicKey

	g.Members = make([]Member, 0, group.Size)
	for _, slot := range group.Members.OccupiedSlots() {
		m, _ := group.Members.At(slot)
		g.Members = append(g.Members, Member{
			Slot:             slot,
			Address:          m.Address,
			PartialPublicKey: m.PartialPublicKey,
		})
	}

	g.Committers = group.Committers
	if g.Committers == nil {
		g.Committers = randcast.AddressList{}
	}
	g.CommitCaches = make([]CommitCache, 0, len(group.CommitCaches))
	for _, c := range group.CommitCaches {
		g.CommitCaches = append(g.CommitCaches, CommitCache{
			Voters:            c.Voters,
			GroupEpoch:        c.Result.GroupEpoch,
			PublicKey:         c.Result.PublicKey,
			DisqualifiedNodes: c.Result.DisqualifiedNodes,
		})
	}
}

type Coordinator struct {
	GroupIndex   uint64               `json:"group_index"`
	GroupEpoch   uint64               `json:"group_epoch"`
	GlobalEpoch  uint64               `json:"global_epoch"`
	Address      randcast.Address     `json:"address"`
	Phase        int                  `json:"phase"`
	StartBlock   uint64               `json:"start_block"`
	Threshold    int                  `json:"threshold"`
	Participants randcast.AddressList `json:"participants"`
}

func (c *Coordinator) Build(coordinator module.PhaseCoordinator) {
	params := coordinator.Params()
	c.GroupIndex = params.GroupIndex
	c.GroupEpoch = params.GroupEpoch
	c.GlobalEpoch = params.GlobalEpoch
	c.Address = coordinator.Address()
	c.Phase = coordinator.InPhase()
	c.StartBlock = params.StartBlock
	c.Threshold = params.Threshold
	c.Participants = coordinator.Participants()
}

type Controller struct {
	GlobalEpoch uint64 `json:"global_epoch"`
	Groups      int    `json:"groups"`
	Nodes       int    `json:"nodes"`
	LastOutput  string `json:"last_output"`
}

// RegisterRequest is the body of a node registration.
type RegisterRequest struct {
	Caller       randcast.Address `json:"caller" validate:"required"`
	DKGPublicKey hexutil.Bytes    `json:"dkg_public_key" validate:"required"`
}

// CommitRequest is the body of a DKG commitment.
type CommitRequest struct {
	Caller            randcast.Address     `json:"caller" validate:"required"`
	GroupEpoch        uint64               `json:"group_epoch"`
	PublicKey         hexutil.Bytes        `json:"public_key" validate:"required"`
	PartialPublicKey  hexutil.Bytes        `json:"partial_public_key" validate:"required"`
	DisqualifiedNodes randcast.AddressList `json:"disqualified_nodes"`
}

// PostProcessRequest is the body of a DKG post-processing call.
type PostProcessRequest struct {
	Caller     randcast.Address `json:"caller" validate:"required"`
	GroupEpoch uint64           `json:"group_epoch"`
}
