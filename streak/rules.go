// Package streak defines the economic rules and constants of the streak ledger.
//
// This package provides:
//   - The protocol constants callers must match for compatibility
//     (stake bounds, growth and fee rates in basis points, referral depth)
//   - Named rule sets (MainNet, DevNet, FakeNet) that differ only in the
//     default check-in interval and the program ID
//   - Validation so a hand-edited rule set cannot break fund conservation
//
// The Rules type is passed explicitly to the rules engine; nothing in the
// ledger reads these values from globals.

package streak

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rony4d/go-streak-ledger/inter/pubkey"
)

// Protocol constants. These must match exactly for compatibility.
const (
	// LamportsPerSOL is the number of base units in one currency unit.
	LamportsPerSOL uint64 = 1_000_000_000

	// MinStake is 0.05 SOL.
	MinStake uint64 = 50_000_000

	// MaxStake is 2 SOL. The ledger itself has no error kind for it; clients enforce it.
	MaxStake uint64 = 2_000_000_000

	// BpsDenominator is 100% in basis points.
	BpsDenominator uint64 = 10_000

	// DailyGrowthBps is applied on every successful check-in (0.1%).
	DailyGrowthBps uint64 = 10

	// BonusGrowthBps is applied on a bonus claim, on top of daily growth (0.05%).
	BonusGrowthBps uint64 = 5

	// ProtocolFeeBps is the treasury share of a forfeited stake (3%).
	ProtocolFeeBps uint64 = 300

	// ReferralCutBps is the total referral share of a forfeited stake across all levels (5%).
	ReferralCutBps uint64 = 500

	// MaxReferralLevels is how many ancestors share in a forfeited stake.
	MaxReferralLevels = 3

	// LifelinesPerReferrals: one lifeline per this many direct referrals.
	LifelinesPerReferrals uint32 = 3

	// SecondsPerDay is the mainnet check-in interval.
	SecondsPerDay int64 = 86_400

	// BonusDurationSeconds is how long a bonus window stays open.
	BonusDurationSeconds int64 = 900

	// DevNetIntervalSeconds shortens a period to a minute for local play.
	DevNetIntervalSeconds int64 = 60
)

// DefaultProgramID is the address the ledger program is deployed under.
var DefaultProgramID = pubkey.MustFromString("Eyz3yhxzGKemxF7JYT3Q9LCVCKLkim6unnzH4cMprkxW")

var (
	ErrReferralSplit   = errors.New("referral level shares must sum to the referral cut")
	ErrShareOverflow   = errors.New("fee plus referral cut exceeds 100%")
	ErrZeroInterval    = errors.New("check-in interval must be positive")
	ErrZeroMinStake    = errors.New("minimum stake must be positive")
	ErrStakeBounds     = errors.New("maximum stake is below minimum stake")
	ErrNoLifelineRatio = errors.New("lifelines-per-referrals must be positive")
)

// Rules describes one deployment of the ledger.
//
// Note: Rules holds only value types, so a plain assignment is already a deep copy.
type Rules struct {
	// Name identifies the rule set in logs and config dumps ("main", "dev", "fake").
	Name string

	// ProgramID is mixed into every record address derivation.
	ProgramID pubkey.Pubkey

	// Economy is everything that moves value.
	Economy EconomyRules

	// DefaultCheckinInterval seeds GameState.checkinIntervalSeconds at initialize.
	DefaultCheckinInterval int64

	// BonusDuration is the length of a bonus window in seconds.
	BonusDuration int64
}

// EconomyRules are the monetary parameters, all in lamports or basis points.
type EconomyRules struct {
	MinStake uint64
	MaxStake uint64

	DailyGrowthBps uint64
	BonusGrowthBps uint64

	ProtocolFeeBps uint64

	// ReferralCutBps is the total referral share. ReferralLevelBps splits it
	// across ancestors, level 1 (direct referrer) first; it must sum to ReferralCutBps.
	ReferralCutBps   uint64
	ReferralLevelBps [MaxReferralLevels]uint64

	LifelinesPerReferrals uint32
}

// DefaultEconomyRules returns the mainnet economy.
func DefaultEconomyRules() EconomyRules {
	return EconomyRules{
		MinStake:              MinStake,
		MaxStake:              MaxStake,
		DailyGrowthBps:        DailyGrowthBps,
		BonusGrowthBps:        BonusGrowthBps,
		ProtocolFeeBps:        ProtocolFeeBps,
		ReferralCutBps:        ReferralCutBps,
		ReferralLevelBps:      [MaxReferralLevels]uint64{250, 150, 100},
		LifelinesPerReferrals: LifelinesPerReferrals,
	}
}

func MainNetRules() Rules {
	return Rules{
		Name:                   "main",
		ProgramID:              DefaultProgramID,
		Economy:                DefaultEconomyRules(),
		DefaultCheckinInterval: SecondsPerDay,
		BonusDuration:          BonusDurationSeconds,
	}
}

// DevNetRules keeps the mainnet economy with one-minute periods.
func DevNetRules() Rules {
	r := MainNetRules()
	r.Name = "dev"
	r.DefaultCheckinInterval = DevNetIntervalSeconds
	return r
}

// FakeNetRules is DevNet under a separate program ID, for throwaway local ledgers and tests.
func FakeNetRules() Rules {
	r := DevNetRules()
	r.Name = "fake"
	r.ProgramID, _ = pubkey.FromBytes(fakeProgramID[:])
	return r
}

var fakeProgramID = [32]byte{'s', 't', 'r', 'e', 'a', 'k', '-', 'f', 'a', 'k', 'e', 'n', 'e', 't'}

// RulesByName resolves "main", "dev" or "fake".
func RulesByName(name string) (Rules, error) {
	switch name {
	case "main", "mainnet":
		return MainNetRules(), nil
	case "dev", "devnet":
		return DevNetRules(), nil
	case "fake", "fakenet":
		return FakeNetRules(), nil
	default:
		return Rules{}, fmt.Errorf("unknown rules preset %q (want main|dev|fake)", name)
	}
}

// Validate checks the invariants the rules engine relies on for conservation.
func (r Rules) Validate() error {
	e := r.Economy
	if e.MinStake == 0 {
		return ErrZeroMinStake
	}
	if e.MaxStake < e.MinStake {
		return ErrStakeBounds
	}
	var sum uint64
	for _, bps := range e.ReferralLevelBps {
		sum += bps
	}
	if sum != e.ReferralCutBps {
		return ErrReferralSplit
	}
	if e.ProtocolFeeBps+e.ReferralCutBps > BpsDenominator {
		return ErrShareOverflow
	}
	if r.DefaultCheckinInterval <= 0 || r.BonusDuration <= 0 {
		return ErrZeroInterval
	}
	if e.LifelinesPerReferrals == 0 {
		return ErrNoLifelineRatio
	}
	return nil
}

// Copy returns a copy of the rules.
func (r Rules) Copy() Rules {
	return r
}

// String renders the rules as JSON for logs.
func (r Rules) String() string {
	b, _ := json.Marshal(&r)
	return string(b)
}
