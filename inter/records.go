package inter

import (
	"errors"

	"github.com/rony4d/go-streak-ledger/inter/pubkey"
	"github.com/rony4d/go-streak-ledger/utils/borsh"
)

/*
	Account records. Each record is stored as
	[8-byte kind discriminator][fields, little-endian, declaration order][zero padding]
	and always occupies exactly its allocated size, so a record can be
	rewritten in place without resizing.
*/

const (
	// GameStateSize is the allocated size of the GameState record, 56 reserved bytes included.
	GameStateSize = 8 + 32 + 32 + 8 + 8 + 8 + 8 + 8 + 8 + 8 + 1 + 56
	// PlayerSize is the allocated size of a Player record, 64 reserved bytes included.
	// The referrer slot is sized for Some (1 + 32).
	PlayerSize = 8 + 32 + 8 + 4 + 8 + 8 + 8 + 1 + 33 + 4 + 1 + 1 + 8 + 4 + 8 + 1 + 64
)

var (
	ErrDiscriminatorMismatch = errors.New("record kind discriminator mismatch")
	ErrRecordSize            = errors.New("record has unexpected size")
)

// RecordKind tells GameState and Player records apart when scanning storage.
type RecordKind uint8

const (
	UnknownRecord RecordKind = iota
	GameStateRecord
	PlayerRecord
)

func (k RecordKind) String() string {
	switch k {
	case GameStateRecord:
		return "GameState"
	case PlayerRecord:
		return "Player"
	default:
		return "unknown"
	}
}

// KindOf inspects the discriminator of a raw record.
func KindOf(raw []byte) RecordKind {
	if len(raw) < len(Discriminator{}) {
		return UnknownRecord
	}
	var d Discriminator
	copy(d[:], raw)
	switch d {
	case GameStateDiscriminator:
		return GameStateRecord
	case PlayerDiscriminator:
		return PlayerRecord
	default:
		return UnknownRecord
	}
}

// GameState is the singleton holding global configuration and counters.
type GameState struct {
	Authority              pubkey.Pubkey `json:"authority"`
	Treasury               pubkey.Pubkey `json:"treasury"`
	TotalPlayers           uint64        `json:"totalPlayers"`
	TotalPool              uint64        `json:"totalPool"`
	LastDeathTimestamp     int64         `json:"lastDeathTimestamp"`
	TotalDeaths            uint64        `json:"totalDeaths"`
	CurrentBonusWindow     uint64        `json:"currentBonusWindow"`
	BonusWindowEnd         int64         `json:"bonusWindowEnd"`
	CheckinIntervalSeconds int64         `json:"checkinIntervalSeconds"`
	Bump                   uint8         `json:"bump"`
}

// MarshalBinary encodes the record at its allocated size.
func (g *GameState) MarshalBinary() ([]byte, error) {
	return borsh.MarshalPaddedAdapter(GameStateSize, func(w *borsh.Writer) error {
		w.FixedBytes(GameStateDiscriminator[:])
		w.FixedBytes(g.Authority[:])
		w.FixedBytes(g.Treasury[:])
		w.U64(g.TotalPlayers)
		w.U64(g.TotalPool)
		w.I64(g.LastDeathTimestamp)
		w.U64(g.TotalDeaths)
		w.U64(g.CurrentBonusWindow)
		w.I64(g.BonusWindowEnd)
		w.I64(g.CheckinIntervalSeconds)
		w.U8(g.Bump)
		return nil
	})
}

// UnmarshalBinary decodes a record, checking its size and kind first.
func (g *GameState) UnmarshalBinary(raw []byte) error {
	if len(raw) != GameStateSize {
		return ErrRecordSize
	}
	if KindOf(raw) != GameStateRecord {
		return ErrDiscriminatorMismatch
	}
	return borsh.UnmarshalPaddedAdapter(raw, func(r *borsh.Reader) error {
		r.FixedBytes(8)
		g.Authority = r.Fixed32()
		g.Treasury = r.Fixed32()
		g.TotalPlayers = r.U64()
		g.TotalPool = r.U64()
		g.LastDeathTimestamp = r.I64()
		g.TotalDeaths = r.U64()
		g.CurrentBonusWindow = r.U64()
		g.BonusWindowEnd = r.I64()
		g.CheckinIntervalSeconds = r.I64()
		g.Bump = r.U8()
		return nil
	})
}

// Player is the per-identity stake record. Records are never deleted;
// IsActive toggles and the record is reused on restake.
type Player struct {
	Wallet           pubkey.Pubkey  `json:"wallet"`
	Stake            uint64         `json:"stake"`
	StreakDays       uint32         `json:"streakDays"`
	LastCheckin      int64          `json:"lastCheckin"`
	StartDay         int64          `json:"startDay"`
	PendingRewards   uint64         `json:"pendingRewards"`
	IsActive         bool           `json:"isActive"`
	Referrer         *pubkey.Pubkey `json:"referrer"`
	DirectReferrals  uint32         `json:"directReferrals"`
	Lifelines        uint8          `json:"lifelines"`
	LifelinesUsed    uint8          `json:"lifelinesUsed"`
	LastBonusClaimed uint64         `json:"lastBonusClaimed"`
	TotalBonusClaims uint32         `json:"totalBonusClaims"`
	ReferralEarnings uint64         `json:"referralEarnings"`
	Bump             uint8          `json:"bump"`
}

// Copy returns a deep copy, so the referrer pointer is not shared.
func (p *Player) Copy() *Player {
	cp := *p
	if p.Referrer != nil {
		ref := *p.Referrer
		cp.Referrer = &ref
	}
	return &cp
}

// AvailableLifelines is the number of earned lifelines not yet consumed.
func (p *Player) AvailableLifelines() uint8 {
	if p.Lifelines <= p.LifelinesUsed {
		return 0
	}
	return p.Lifelines - p.LifelinesUsed
}

// MarshalBinary encodes the record at its allocated size.
func (p *Player) MarshalBinary() ([]byte, error) {
	return borsh.MarshalPaddedAdapter(PlayerSize, func(w *borsh.Writer) error {
		w.FixedBytes(PlayerDiscriminator[:])
		w.FixedBytes(p.Wallet[:])
		w.U64(p.Stake)
		w.U32(p.StreakDays)
		w.I64(p.LastCheckin)
		w.I64(p.StartDay)
		w.U64(p.PendingRewards)
		w.Bool(p.IsActive)
		if p.Referrer != nil {
			w.OptionFixed(p.Referrer[:])
		} else {
			w.OptionFixed(nil)
		}
		w.U32(p.DirectReferrals)
		w.U8(p.Lifelines)
		w.U8(p.LifelinesUsed)
		w.U64(p.LastBonusClaimed)
		w.U32(p.TotalBonusClaims)
		w.U64(p.ReferralEarnings)
		w.U8(p.Bump)
		return nil
	})
}

// UnmarshalBinary decodes a record, checking its size and kind first.
func (p *Player) UnmarshalBinary(raw []byte) error {
	if len(raw) != PlayerSize {
		return ErrRecordSize
	}
	if KindOf(raw) != PlayerRecord {
		return ErrDiscriminatorMismatch
	}
	return borsh.UnmarshalPaddedAdapter(raw, func(r *borsh.Reader) error {
		r.FixedBytes(8)
		p.Wallet = r.Fixed32()
		p.Stake = r.U64()
		p.StreakDays = r.U32()
		p.LastCheckin = r.I64()
		p.StartDay = r.I64()
		p.PendingRewards = r.U64()
		p.IsActive = r.Bool()
		if ref := r.OptionFixed32(); ref != nil {
			pk := pubkey.Pubkey(*ref)
			p.Referrer = &pk
		} else {
			p.Referrer = nil
		}
		p.DirectReferrals = r.U32()
		p.Lifelines = r.U8()
		p.LifelinesUsed = r.U8()
		p.LastBonusClaimed = r.U64()
		p.TotalBonusClaims = r.U32()
		p.ReferralEarnings = r.U64()
		p.Bump = r.U8()
		return nil
	})
}
