package streakcore

import (
	"github.com/rony4d/go-streak-ledger/inter"
	"github.com/rony4d/go-streak-ledger/inter/pubkey"
	"github.com/rony4d/go-streak-ledger/streak"
)

type ancestor struct {
	addr   pubkey.Pubkey
	player *inter.Player
}

// processDeath settles a dead player: a lifeline revives them, otherwise the
// stake is split between referral ancestors, the treasury and the pool.
// Anyone may call it.
func (e *execution) processDeath() error {
	game, err := e.loadGame()
	if err != nil {
		return err
	}
	deadAddr := e.account(inter.RolePlayer)
	dead, err := e.readPlayer(deadAddr)
	if err != nil {
		return err
	}
	if dead == nil {
		return ErrNotStaked
	}
	if deadAddr != e.p.PlayerAddress(dead.Wallet) {
		return ErrUnauthorized
	}
	if !dead.IsActive {
		return ErrAlreadyProcessed
	}
	if err := e.checkClock(dead); err != nil {
		return err
	}
	if !IsDead(dead, e.now(), game.CheckinIntervalSeconds) {
		return ErrPlayerNotDead
	}
	treasury := e.account(inter.RoleTreasury)
	if treasury != game.Treasury {
		return ErrUnauthorized
	}
	ancestors, err := e.resolveAncestors(dead)
	if err != nil {
		return err
	}

	if dead.AvailableLifelines() > 0 {
		dead.LifelinesUsed++
		dead.LastCheckin = e.now()
		if err := e.put(deadAddr, dead); err != nil {
			return err
		}
		e.log("Lifeline used! Player survives. Remaining lifelines: %d", dead.AvailableLifelines())
		return nil
	}

	split, err := SplitForfeit(dead.Stake, e.economy(), len(ancestors))
	if err != nil {
		return err
	}
	for i, a := range ancestors {
		share := split.Referral[i]
		if a.player.PendingRewards, err = addU64(a.player.PendingRewards, share); err != nil {
			return err
		}
		if a.player.ReferralEarnings, err = addU64(a.player.ReferralEarnings, share); err != nil {
			return err
		}
	}
	if game.TotalPool, err = addU64(game.TotalPool, split.Pool); err != nil {
		return err
	}
	if game.TotalDeaths, err = addU64(game.TotalDeaths, 1); err != nil {
		return err
	}
	if err := e.checkVault(split.Fee); err != nil {
		return err
	}
	game.LastDeathTimestamp = e.now()
	dead.Stake = 0
	dead.IsActive = false
	dead.StreakDays = 0

	if err := e.put(deadAddr, dead); err != nil {
		return err
	}
	for _, a := range ancestors {
		if err := e.put(a.addr, a.player); err != nil {
			return err
		}
	}
	if err := e.put(e.p.gameAddr, game); err != nil {
		return err
	}
	e.transfer(e.p.gameAddr, treasury, split.Fee)

	e.log("Player died! Lost: %d lamports", split.Forfeited)
	e.log("Protocol fee: %d lamports", split.Fee)
	e.log("Referral payouts: %d lamports", split.Distributed())
	e.log("Added to pool: %d lamports", split.Pool)
	return nil
}

// resolveAncestors walks the dead player's referrer chain and checks it
// against the referrer slots level by level. A slot must hold the true
// ancestor's record address when that ancestor exists and be empty when it
// does not.
func (e *execution) resolveAncestors(dead *inter.Player) ([]ancestor, error) {
	var out []ancestor
	next := dead.Referrer
	for _, role := range inter.AncestorRoles {
		addr := e.account(role)
		if next == nil {
			if !addr.Zero() {
				return nil, ErrInvalidReferrer
			}
			continue
		}
		if addr != e.p.PlayerAddress(*next) {
			return nil, ErrInvalidReferrer
		}
		rec, err := e.readPlayer(addr)
		if err != nil {
			return nil, err
		}
		if rec == nil || rec.Wallet != *next {
			return nil, ErrInvalidReferrer
		}
		out = append(out, ancestor{addr: addr, player: rec})
		next = rec.Referrer
	}
	return out, nil
}

// Forfeit is how a forfeited stake is divided.
type Forfeit struct {
	Forfeited uint64
	Fee       uint64
	// Referral holds the share of each present ancestor level, level 1 first.
	Referral []uint64
	Pool     uint64
}

// Distributed is the total paid to ancestors.
func (f Forfeit) Distributed() uint64 {
	var sum uint64
	for _, share := range f.Referral {
		sum += share
	}
	return sum
}

// SplitForfeit divides forfeited among levels ancestors, the treasury fee and
// the pool. Shares round down and the remainder goes to the pool, so
// Distributed + Fee + Pool == Forfeited exactly. Levels beyond the end of the
// referral chain leave their share in the pool.
func SplitForfeit(forfeited uint64, econ streak.EconomyRules, levels int) (Forfeit, error) {
	if levels > streak.MaxReferralLevels {
		levels = streak.MaxReferralLevels
	}
	f := Forfeit{Forfeited: forfeited, Referral: make([]uint64, 0, levels)}
	var err error
	if f.Fee, err = bpsOf(forfeited, econ.ProtocolFeeBps); err != nil {
		return Forfeit{}, err
	}
	remaining := forfeited
	if remaining, err = subU64(remaining, f.Fee); err != nil {
		return Forfeit{}, err
	}
	for level := 0; level < levels; level++ {
		share, err := bpsOf(forfeited, econ.ReferralLevelBps[level])
		if err != nil {
			return Forfeit{}, err
		}
		if remaining, err = subU64(remaining, share); err != nil {
			return Forfeit{}, err
		}
		f.Referral = append(f.Referral, share)
	}
	f.Pool = remaining
	return f, nil
}
