package streakcore

import (
	"github.com/rony4d/go-streak-ledger/inter"
	"github.com/rony4d/go-streak-ledger/inter/pubkey"
)

// stake locks amount for the signer, creating the player record on first
// stake and reusing it on restake.
func (e *execution) stake() error {
	econ := e.economy()
	user := e.ix.Signer
	amount := e.call.Amount

	game, err := e.loadGame()
	if err != nil {
		return err
	}
	if amount < econ.MinStake {
		return ErrBelowMinimumStake
	}
	balance, err := e.env.Accounts.Balance(user)
	if err != nil {
		return err
	}
	if balance < amount {
		return ErrInsufficientFunds
	}
	player, err := e.loadOwnPlayer()
	if err != nil {
		return err
	}
	if player != nil && player.IsActive {
		return ErrAlreadyStaked
	}
	if ref := e.call.Referrer; ref != nil && *ref == user {
		return ErrSelfReferral
	}

	restake := player != nil
	var (
		referrer     *inter.Player
		referrerAddr pubkey.Pubkey
	)
	if restake {
		if err := e.checkClock(player); err != nil {
			return err
		}
	} else {
		_, bump := inter.PlayerAddress(e.p.rules.ProgramID, user)
		player = &inter.Player{Wallet: user, Bump: bump}
		if e.call.Referrer != nil {
			ref := *e.call.Referrer
			player.Referrer = &ref
			if referrer, referrerAddr, err = e.creditReferrer(ref); err != nil {
				return err
			}
		}
		if game.TotalPlayers, err = addU64(game.TotalPlayers, 1); err != nil {
			return err
		}
	}

	// Referrer linkage, referral earnings, lifelines and bonus history survive a restake.
	player.Stake = amount
	player.StreakDays = 1
	player.LastCheckin = e.now()
	player.StartDay = e.now()
	player.IsActive = true

	playerAddr := e.account(inter.RolePlayer)
	if err := e.put(playerAddr, player); err != nil {
		return err
	}
	if referrer != nil {
		if err := e.put(referrerAddr, referrer); err != nil {
			return err
		}
	}
	if !restake {
		if err := e.put(e.p.gameAddr, game); err != nil {
			return err
		}
	}
	e.transfer(user, e.p.gameAddr, amount)

	if restake {
		e.log("Player re-staked %d lamports (starting over)", amount)
	} else {
		e.log("Player staked %d lamports", amount)
	}
	e.log("Start day: %d", player.StartDay)
	return nil
}

// creditReferrer resolves the referrer record of a first stake and counts
// the new referral, granting a lifeline every LifelinesPerReferrals referrals.
func (e *execution) creditReferrer(wallet pubkey.Pubkey) (*inter.Player, pubkey.Pubkey, error) {
	addr := e.account(inter.RoleReferrer)
	if addr != e.p.PlayerAddress(wallet) {
		return nil, addr, ErrInvalidReferrer
	}
	referrer, err := e.readPlayer(addr)
	if err != nil {
		return nil, addr, err
	}
	if referrer == nil || referrer.Wallet != wallet || !referrer.IsActive {
		return nil, addr, ErrInvalidReferrer
	}

	old := referrer.DirectReferrals
	if referrer.DirectReferrals, err = incU32(old); err != nil {
		return nil, addr, err
	}
	per := e.economy().LifelinesPerReferrals
	if referrer.DirectReferrals/per > old/per {
		if referrer.Lifelines, err = incU8(referrer.Lifelines); err != nil {
			return nil, addr, err
		}
	}
	return referrer, addr, nil
}

// loadLivePlayer loads the signer's record and rejects missing, inactive and dead players.
func (e *execution) loadLivePlayer() (*inter.GameState, *inter.Player, error) {
	game, err := e.loadGame()
	if err != nil {
		return nil, nil, err
	}
	player, err := e.loadOwnPlayer()
	if err != nil {
		return nil, nil, err
	}
	if player == nil || !player.IsActive {
		return nil, nil, ErrNotStaked
	}
	if err := e.checkClock(player); err != nil {
		return nil, nil, err
	}
	if IsDead(player, e.now(), game.CheckinIntervalSeconds) {
		return nil, nil, ErrPlayerDead
	}
	return game, player, nil
}

func (e *execution) checkin() error {
	game, player, err := e.loadLivePlayer()
	if err != nil {
		return err
	}
	interval := game.CheckinIntervalSeconds
	if !CanCheckin(player, e.now(), interval) {
		return ErrAlreadyCheckedIn
	}

	stake, growth, err := grow(player.Stake, e.economy().DailyGrowthBps)
	if err != nil {
		return err
	}
	streakDays, err := incU32(player.StreakDays)
	if err != nil {
		return err
	}
	player.Stake = stake
	player.StreakDays = streakDays
	player.LastCheckin = e.now()

	if err := e.put(e.account(inter.RolePlayer), player); err != nil {
		return err
	}
	e.log("Check-in successful! Day: %d", player.StreakDays)
	e.log("Interval: %d seconds (%d minutes)", interval, interval/60)
	e.log("New stake: %d lamports (+%d growth)", player.Stake, growth)
	return nil
}

func (e *execution) claimBonus() error {
	game, player, err := e.loadLivePlayer()
	if err != nil {
		return err
	}
	switch {
	case game.CurrentBonusWindow == 0:
		return ErrNoBonusWindow
	case !BonusActive(game, e.now()):
		return ErrBonusWindowExpired
	case player.LastBonusClaimed >= game.CurrentBonusWindow:
		return ErrAlreadyClaimed
	}

	stake, growth, err := grow(player.Stake, e.economy().BonusGrowthBps)
	if err != nil {
		return err
	}
	claims, err := incU32(player.TotalBonusClaims)
	if err != nil {
		return err
	}
	player.Stake = stake
	player.LastBonusClaimed = game.CurrentBonusWindow
	player.TotalBonusClaims = claims

	if err := e.put(e.account(inter.RolePlayer), player); err != nil {
		return err
	}
	e.log("Bonus claimed! Window: %d", game.CurrentBonusWindow)
	e.log("Bonus growth: %d lamports", growth)
	e.log("New stake: %d lamports", player.Stake)
	return nil
}

// withdraw pays the stake back and leaves the game. Pending rewards stay claimable.
func (e *execution) withdraw() error {
	_, player, err := e.loadLivePlayer()
	if err != nil {
		return err
	}
	amount := player.Stake
	if err := e.checkVault(amount); err != nil {
		return err
	}
	streakDays := player.StreakDays

	player.Stake = 0
	player.StreakDays = 0
	player.IsActive = false

	if err := e.put(e.account(inter.RolePlayer), player); err != nil {
		return err
	}
	e.transfer(e.p.gameAddr, e.ix.Signer, amount)
	e.log("Withdrew %d lamports", amount)
	e.log("Final streak: %d days", streakDays)
	return nil
}

// claimRewards pays out pending referral rewards. Inactive players may claim.
func (e *execution) claimRewards() error {
	if _, err := e.loadGame(); err != nil {
		return err
	}
	player, err := e.loadOwnPlayer()
	if err != nil {
		return err
	}
	if player == nil || player.PendingRewards == 0 {
		return ErrNoRewards
	}
	rewards := player.PendingRewards
	if err := e.checkVault(rewards); err != nil {
		return err
	}

	player.PendingRewards = 0
	if err := e.put(e.account(inter.RolePlayer), player); err != nil {
		return err
	}
	e.transfer(e.p.gameAddr, e.ix.Signer, rewards)
	e.log("Claimed %d lamports in rewards", rewards)
	return nil
}
