package cmd

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arpa-network/randcast-controller/engine/api/rest"
	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/module/chain"
	"github.com/arpa-network/randcast-controller/module/coordinator"
	"github.com/arpa-network/randcast-controller/state/controller"
	"github.com/arpa-network/randcast-controller/state/controller/events"
)

var (
	flagNodes uint64
	flagSeed  uint64
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().Uint64VarP(&flagNodes, "nodes", "n", 12, "number of nodes to register")
	simulateCmd.Flags().Uint64Var(&flagSeed, "seed", 1, "randomness output seeding the sampling")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "register nodes on an in-memory controller, run honest dkg rounds and print the groups",
	Run: func(cmd *cobra.Command, args []string) {
		groups, err := simulate(flagNodes, flagSeed)
		if err != nil {
			log.Fatal().Err(err).Msg("simulation failed")
		}
		summary, err := summarizeGroupSizes(groups)
		if err != nil {
			log.Fatal().Err(err).Msg("could not summarize groups")
		}
		log.Info().
			Int("groups", len(groups)).
			Float64("mean_size", summary.Mean).
			Float64("size_stddev", summary.StdDev).
			Float64("median_size", summary.Median).
			Float64("min_size", summary.Min).
			Float64("max_size", summary.Max).
			Msg("group sizes")

		models := make([]rest.Group, len(groups))
		for i, group := range groups {
			models[i].Build(group)
		}
		prettyPrint(models)
	},
}

// taskLogger prints every published task.
type taskLogger struct {
	events.Noop
}

func (taskLogger) DKGTaskPublished(task randcast.DKGTask) {
	log.Info().
		Uint64("group_index", task.GroupIndex).
		Uint64("epoch", task.Epoch).
		Int("size", task.Size).
		Int("threshold", task.Threshold).
		Uint64("assignment_block_height", task.AssignmentBlockHeight).
		Str("coordinator", task.CoordinatorAddress.Hex()).
		Msg("dkg task published")
}

func simulate(nodes uint64, seed uint64) ([]*randcast.Group, error) {
	clock := chain.NewClock(0)
	engine, err := controller.New(log.Logger, conf.Controller, clock, coordinator.NewFactory(log.Logger, clock),
		controller.WithConsumer(taskLogger{}))
	if err != nil {
		return nil, err
	}
	if err := engine.SetLastOutput(uint256.NewInt(seed)); err != nil {
		return nil, err
	}

	for i := uint64(1); i <= nodes; i++ {
		addr := randcast.Address(uint256.NewInt(i).Bytes20())
		if err := engine.Register(addr, addr.Bytes()); err != nil {
			return nil, fmt.Errorf("could not register node %d: %w", i, err)
		}
		clock.Advance(1)
	}

	// every member of a running round commits the same public key
	for _, group := range engine.Groups() {
		if group.ConsensusReached {
			continue
		}
		c, err := engine.Coordinator(group.Index)
		if err != nil || c.InPhase() == module.PhaseEnded {
			continue
		}
		publicKey := []byte(fmt.Sprintf("group-%d-epoch-%d", group.Index, group.Epoch))
		for _, slot := range group.Members.OccupiedSlots() {
			member, _ := group.Members.At(slot)
			err := engine.CommitDKG(member.Address, controller.CommitParams{
				GroupIndex:       group.Index,
				GroupEpoch:       group.Epoch,
				PublicKey:        publicKey,
				PartialPublicKey: member.Address.Bytes(),
			})
			if err != nil {
				return nil, fmt.Errorf("could not commit for %s in group %d: %w", member.Address.Hex(), group.Index, err)
			}
		}
	}

	return engine.Groups(), nil
}

// sizeSummary describes how evenly nodes are spread over the groups.
type sizeSummary struct {
	Mean   float64
	StdDev float64
	Median float64
	Min    float64
	Max    float64
}

func summarizeGroupSizes(groups []*randcast.Group) (sizeSummary, error) {
	if len(groups) == 0 {
		return sizeSummary{}, nil
	}
	sizes := make(stats.Float64Data, len(groups))
	for i, group := range groups {
		sizes[i] = float64(group.Size)
	}

	var summary sizeSummary
	var err error
	if summary.Mean, err = sizes.Mean(); err != nil {
		return sizeSummary{}, fmt.Errorf("could not compute mean: %w", err)
	}
	if summary.StdDev, err = sizes.StandardDeviation(); err != nil {
		return sizeSummary{}, fmt.Errorf("could not compute standard deviation: %w", err)
	}
	if summary.Median, err = sizes.Median(); err != nil {
		return sizeSummary{}, fmt.Errorf("could not compute median: %w", err)
	}
	if summary.Min, err = sizes.Min(); err != nil {
		return sizeSummary{}, fmt.Errorf("could not compute minimum: %w", err)
	}
	if summary.Max, err = sizes.Max(); err != nil {
		return sizeSummary{}, fmt.Errorf("could not compute maximum: %w", err)
	}
	return summary, nil
}
