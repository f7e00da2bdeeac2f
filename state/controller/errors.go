package controller

import (
	"errors"
)

// Precondition failures of the controller operations. An operation failing
// with one of them has no effect.
var (
	ErrAlreadyRegistered = errors.New("node already registered")
	ErrNotRegistered     = errors.New("node not registered")
	ErrInvalidAddress    = errors.New("invalid node address")
	ErrUnknownGroup      = errors.New("unknown group")
	ErrUnknownMember     = errors.New("no member in slot")
	ErrNoActiveRound     = errors.New("group has no active dkg round")
	ErrRoundEnded        = errors.New("dkg round has ended")
	ErrRoundInProgress   = errors.New("dkg round is still in progress")
	ErrStaleEpoch        = errors.New("group epoch does not match")
	ErrNotAMember        = errors.New("node is not a member of the group")
	ErrDuplicateCommit   = errors.New("node already committed in this epoch")
	ErrBelowMinimumStake = errors.New("stake below minimum")
	ErrNodeActive        = errors.New("node is already active")
	ErrNodeFrozen        = errors.New("node is still frozen")
)

var preconditionErrors = []error{
	ErrAlreadyRegistered,
	ErrNotRegistered,
	ErrInvalidAddress,
	ErrUnknownGroup,
	ErrUnknownMember,
	ErrNoActiveRound,
	ErrRoundEnded,
	ErrRoundInProgress,
	ErrStaleEpoch,
	ErrNotAMember,
	ErrDuplicateCommit,
	ErrBelowMinimumStake,
	ErrNodeActive,
	ErrNodeFrozen,
}

// IsPreconditionError returns true if err reports a failed precondition of
// an operation, in which case the caller may correct its input and retry.
func IsPreconditionError(err error) bool {
	for _, sentinel := range preconditionErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// IsNotFound returns true if err reports an unknown node, group or member.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotRegistered) ||
		errors.Is(err, ErrUnknownGroup) ||
		errors.Is(err, ErrUnknownMember)
}
