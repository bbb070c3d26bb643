package streakcore

import (
	"math"

	"github.com/rony4d/go-streak-ledger/inter"
)

/*
	Periods are fixed-width windows of `interval` seconds aligned to the epoch.
	Liveness is never stored: every reader recomputes it from the record and
	the current time.

	A player's anchor is the later of the period they last checked in and the
	period their stake began. They may check in once per period after the
	anchor, and they are dead once a whole period has passed after the anchor
	with no check-in:

		alive:  Period(now) <= anchor + 1
		dead:   Period(now) >  anchor + 1
*/

// Period returns floor(t / interval). interval must be positive.
func Period(t, interval int64) int64 {
	p := t / interval
	if t%interval != 0 && t < 0 {
		p--
	}
	return p
}

func anchorPeriod(p *inter.Player, interval int64) int64 {
	anchor := Period(p.LastCheckin, interval)
	if start := Period(p.StartDay, interval); start > anchor {
		anchor = start
	}
	return anchor
}

// IsDead reports whether an active player has missed a whole period.
// Inactive players are never dead; they are simply out of the game.
func IsDead(p *inter.Player, now, interval int64) bool {
	if !p.IsActive {
		return false
	}
	return anchorPeriod(p, interval) < Period(now, interval)-1
}

// CanCheckin reports whether the player may check in at now.
func CanCheckin(p *inter.Player, now, interval int64) bool {
	return p.IsActive && !IsDead(p, now, interval) && Period(p.LastCheckin, interval) < Period(now, interval)
}

// Deadline is the first instant at which the player counts as dead. It
// saturates at the int64 bounds when an interval is too large to represent it.
func Deadline(p *inter.Player, interval int64) int64 {
	anchor := anchorPeriod(p, interval)
	if anchor > math.MaxInt64-2 {
		return math.MaxInt64
	}
	period := anchor + 2
	switch {
	case period > 0 && period > math.MaxInt64/interval:
		return math.MaxInt64
	case period < 0 && period < math.MinInt64/interval:
		return math.MinInt64
	}
	return period * interval
}

// BonusActive reports whether a bonus window is open at now.
func BonusActive(g *inter.GameState, now int64) bool {
	return g.CurrentBonusWindow > 0 && now < g.BonusWindowEnd
}

// PlayerState is the lifecycle position of one identity.
type PlayerState uint8

const (
	Nonexistent PlayerState = iota
	Alive
	DeadPending
	Inactive
)

func (s PlayerState) String() string {
	switch s {
	case Alive:
		return "alive"
	case DeadPending:
		return "dead-pending"
	case Inactive:
		return "inactive"
	default:
		return "nonexistent"
	}
}

// StateOf classifies a player record at now. A nil record is Nonexistent.
func StateOf(p *inter.Player, now, interval int64) PlayerState {
	switch {
	case p == nil:
		return Nonexistent
	case !p.IsActive:
		return Inactive
	case IsDead(p, now, interval):
		return DeadPending
	default:
		return Alive
	}
}
