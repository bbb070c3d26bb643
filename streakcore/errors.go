package streakcore

import (
	"errors"
	"fmt"
)

// FirstErrorCode is the numeric code of the first taxonomy kind.
const FirstErrorCode uint32 = 6000

// Error is one kind of the closed rejection taxonomy. Kinds are compared by
// identity, so errors.Is works through any amount of wrapping.
type Error struct {
	Code uint32
	Name string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Msg)
}

// The taxonomy, in code order.
var (
	ErrAlreadyStaked      = &Error{6000, "AlreadyStaked", "Player already has an active stake"}
	ErrBelowMinimumStake  = &Error{6001, "BelowMinimumStake", "Stake amount is below minimum (0.05 SOL)"}
	ErrInsufficientFunds  = &Error{6002, "InsufficientFunds", "Insufficient funds in wallet"}
	ErrNotStaked          = &Error{6003, "NotStaked", "Player does not have an active stake"}
	ErrAlreadyCheckedIn   = &Error{6004, "AlreadyCheckedIn", "Player has already checked in today"}
	ErrPlayerDead         = &Error{6005, "PlayerDead", "Player is dead (missed check-in)"}
	ErrPlayerNotDead      = &Error{6006, "PlayerNotDead", "Player is not dead"}
	ErrAlreadyProcessed   = &Error{6007, "AlreadyProcessed", "Player already processed"}
	ErrNoBonusWindow      = &Error{6008, "NoBonusWindow", "No bonus window is currently active"}
	ErrBonusWindowExpired = &Error{6009, "BonusWindowExpired", "Bonus window has expired"}
	ErrAlreadyClaimed     = &Error{6010, "AlreadyClaimed", "Already claimed this bonus window"}
	ErrNoRewards          = &Error{6011, "NoRewards", "No rewards to claim"}
	ErrUnauthorized       = &Error{6012, "Unauthorized", "Unauthorized - not the authority"}
	ErrInvalidReferrer    = &Error{6013, "InvalidReferrer", "Invalid referrer"}
	ErrSelfReferral       = &Error{6014, "SelfReferral", "Cannot refer yourself"}
	ErrOverflow           = &Error{6015, "Overflow", "Arithmetic overflow"}
	ErrInvalidTimestamp   = &Error{6016, "InvalidTimestamp", "Invalid timestamp"}
	ErrInvalidInterval    = &Error{6017, "InvalidInterval", "Invalid check-in interval (must be > 0)"}
)

var taxonomy = []*Error{
	ErrAlreadyStaked,
	ErrBelowMinimumStake,
	ErrInsufficientFunds,
	ErrNotStaked,
	ErrAlreadyCheckedIn,
	ErrPlayerDead,
	ErrPlayerNotDead,
	ErrAlreadyProcessed,
	ErrNoBonusWindow,
	ErrBonusWindowExpired,
	ErrAlreadyClaimed,
	ErrNoRewards,
	ErrUnauthorized,
	ErrInvalidReferrer,
	ErrSelfReferral,
	ErrOverflow,
	ErrInvalidTimestamp,
	ErrInvalidInterval,
}

// Precondition failures outside the taxonomy. They mean the instruction was
// malformed or addressed to a ledger in the wrong state, not that a rule rejected it.
var (
	ErrAccountInUse      = errors.New("account already in use")
	ErrNotInitialized    = errors.New("game state is not initialized")
	ErrAccountCount      = errors.New("wrong number of accounts for instruction")
	ErrMissingAccount    = errors.New("required account slot is empty")
	ErrCorruptGameRecord = errors.New("game state record is corrupt")
)

// Errors lists every taxonomy kind in code order.
func Errors() []*Error {
	out := make([]*Error, len(taxonomy))
	copy(out, taxonomy)
	return out
}

// ErrorByCode looks a kind up by its numeric code.
func ErrorByCode(code uint32) (*Error, bool) {
	if code < FirstErrorCode || code >= FirstErrorCode+uint32(len(taxonomy)) {
		return nil, false
	}
	return taxonomy[code-FirstErrorCode], true
}

// CodeOf returns the taxonomy code carried by err, or 0 if err is nil or not a taxonomy kind.
func CodeOf(err error) uint32 {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
