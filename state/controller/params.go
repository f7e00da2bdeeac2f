package controller

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Params are the protocol parameters of the controller.
type Params struct {
	// NodeStakingAmount is the stake a node starts with on registration.
	NodeStakingAmount uint64 `mapstructure:"node-staking-amount" validate:"gt=0"`
	// MinimumStake is the stake below which a node is frozen.
	MinimumStake                  uint64 `mapstructure:"minimum-stake"`
	DisqualifiedNodePenaltyAmount uint64 `mapstructure:"disqualified-node-penalty-amount"`
	// DKGPostProcessReward is paid for cleaning up a round without consensus.
	DKGPostProcessReward    uint64 `mapstructure:"dkg-post-process-reward"`
	DefaultMinimumThreshold int    `mapstructure:"default-minimum-threshold" validate:"gt=0"`
	// MinimumGroupSize is the smallest group which runs DKG rounds.
	MinimumGroupSize          int `mapstructure:"minimum-group-size" validate:"gt=0"`
	DefaultNumberOfCommitters int `mapstructure:"default-number-of-committers" validate:"gt=0"`
	GroupMaxCapacity          int `mapstructure:"group-max-capacity" validate:"gt=0"`
	// IdealNumberOfGroups is the number of groups with consensus the
	// assignment aims for before filling up existing groups.
	IdealNumberOfGroups   int    `mapstructure:"ideal-number-of-groups" validate:"gt=0"`
	PendingBlockAfterQuit uint64 `mapstructure:"pending-block-after-quit"`
	// DKGPhaseDuration is the number of blocks of each coordinator phase.
	DKGPhaseDuration uint64 `mapstructure:"dkg-phase-duration" validate:"gt=0"`
}

func DefaultParams() Params {
	return Params{
		NodeStakingAmount:             50000,
		MinimumStake:                  50000,
		DisqualifiedNodePenaltyAmount: 1000,
		DKGPostProcessReward:          100,
		DefaultMinimumThreshold:       2,
		MinimumGroupSize:              3,
		DefaultNumberOfCommitters:     3,
		GroupMaxCapacity:              10,
		IdealNumberOfGroups:           5,
		PendingBlockAfterQuit:         100,
		DKGPhaseDuration:              10,
	}
}

// Validate checks the parameters are consistent. All violations are
// reported at once.
func (p Params) Validate() error {
	var errs *multierror.Error
	if p.NodeStakingAmount == 0 {
		errs = multierror.Append(errs, fmt.Errorf("node staking amount must be positive"))
	}
	if p.NodeStakingAmount < p.MinimumStake {
		errs = multierror.Append(errs, fmt.Errorf("node staking amount (%d) is below the minimum stake (%d)", p.NodeStakingAmount, p.MinimumStake))
	}
	if p.DefaultMinimumThreshold <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("minimum threshold must be positive"))
	}
	if p.MinimumGroupSize <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("minimum group size must be positive"))
	}
	if p.DefaultMinimumThreshold > p.MinimumGroupSize {
		errs = multierror.Append(errs, fmt.Errorf("minimum threshold (%d) exceeds the minimum group size (%d)", p.DefaultMinimumThreshold, p.MinimumGroupSize))
	}
	if p.GroupMaxCapacity < p.MinimumGroupSize {
		errs = multierror.Append(errs, fmt.Errorf("group capacity (%d) is below the minimum group size (%d)", p.GroupMaxCapacity, p.MinimumGroupSize))
	}
	if p.DefaultNumberOfCommitters <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("number of committers must be positive"))
	}
	if p.IdealNumberOfGroups <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("ideal number of groups must be positive"))
	}
	if p.DKGPhaseDuration == 0 {
		errs = multierror.Append(errs, fmt.Errorf("dkg phase duration must be positive"))
	}
	return errs.ErrorOrNil()
}
