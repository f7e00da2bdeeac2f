package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arpa-network/randcast-controller/engine/api/rest"
	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module/metrics"
	"github.com/arpa-network/randcast-controller/storage/store"
)

var (
	flagAddress    string
	flagGroupIndex uint64
)

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.AddCommand(inspectNodesCmd, inspectGroupsCmd, inspectNodeCmd, inspectGroupCmd)

	inspectNodeCmd.Flags().StringVarP(&flagAddress, "address", "a", "", "the address of the node")
	_ = inspectNodeCmd.MarkFlagRequired("address")

	inspectGroupCmd.Flags().Uint64VarP(&flagGroupIndex, "index", "i", 0, "the index of the group")
	_ = inspectGroupCmd.MarkFlagRequired("index")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "read the persisted controller state, the controller must not be running",
}

var inspectNodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "print all registered nodes",
	Run: func(cmd *cobra.Command, args []string) {
		withStores(func(stores *store.All) {
			nodes, err := stores.Nodes.All()
			if err != nil {
				log.Fatal().Err(err).Msg("could not read nodes")
			}
			models := make([]rest.Node, len(nodes))
			for i, node := range nodes {
				models[i].Build(node)
			}
			prettyPrint(models)
		})
	},
}

var inspectGroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "print all groups",
	Run: func(cmd *cobra.Command, args []string) {
		withStores(func(stores *store.All) {
			groups, err := stores.Groups.All()
			if err != nil {
				log.Fatal().Err(err).Msg("could not read groups")
			}
			models := make([]rest.Group, len(groups))
			for i, group := range groups {
				models[i].Build(group)
			}
			prettyPrint(models)
		})
	},
}

var inspectNodeCmd = &cobra.Command{
	Use:   "node",
	Short: "print a node by address",
	Run: func(cmd *cobra.Command, args []string) {
		if !common.IsHexAddress(flagAddress) {
			log.Fatal().Str("address", flagAddress).Msg("malformed node address")
		}
		addr := common.HexToAddress(flagAddress)

		withStores(func(stores *store.All) {
			log.Info().Msgf("getting node by address: %v", addr.Hex())
			node, err := stores.Nodes.ByAddress(addr)
			if err != nil {
				log.Fatal().Err(err).Msg("could not get node")
			}
			var model rest.Node
			model.Build(node)
			prettyPrint(model)
		})
	},
}

var inspectGroupCmd = &cobra.Command{
	Use:   "group",
	Short: "print a group by index, with its live dkg round if any",
	Run: func(cmd *cobra.Command, args []string) {
		withStores(func(stores *store.All) {
			log.Info().Msgf("getting group by index: %v", flagGroupIndex)
			group, err := stores.Groups.ByIndex(flagGroupIndex)
			if err != nil {
				log.Fatal().Err(err).Msg("could not get group")
			}
			var model rest.Group
			model.Build(group)
			prettyPrint(model)

			round, err := stores.DKGRounds.ByGroup(flagGroupIndex)
			if err != nil {
				log.Info().Err(err).Msg("group has no live dkg round")
				return
			}
			prettyPrint(roundView(round))
		})
	},
}

type dkgRound struct {
	GroupEpoch         uint64           `json:"group_epoch"`
	GlobalEpoch        uint64           `json:"global_epoch"`
	Threshold          int              `json:"threshold"`
	StartBlock         uint64           `json:"start_block"`
	PhaseDuration      uint64           `json:"phase_duration"`
	CoordinatorAddress randcast.Address `json:"coordinator_address"`
}

func roundView(round *randcast.DKGRound) dkgRound {
	return dkgRound{
		GroupEpoch:         round.GroupEpoch,
		GlobalEpoch:        round.GlobalEpoch,
		Threshold:          round.Threshold,
		StartBlock:         round.StartBlock,
		PhaseDuration:      round.PhaseDuration,
		CoordinatorAddress: round.CoordinatorAddress,
	}
}

func withStores(f func(stores *store.All)) {
	stores, err := initStores(conf.Storage, metrics.NewNoopCollector())
	if err != nil {
		log.Fatal().Err(err).Msg("could not open storage")
	}
	defer func() {
		if err := stores.DB.Close(); err != nil {
			log.Error().Err(err).Msg("could not close database")
		}
	}()
	f(stores)
}

func prettyPrint(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("could not encode output")
	}
	fmt.Println(string(out))
}
