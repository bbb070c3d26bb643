package streakcore

import (
	"github.com/rony4d/go-streak-ledger/inter"
)

// initialize creates the game state. The signer becomes the authority.
func (e *execution) initialize() error {
	addr := e.account(inter.RoleGameState)
	if addr != e.p.gameAddr {
		return ErrUnauthorized
	}
	raw, err := e.env.Accounts.Account(addr)
	if err != nil {
		return err
	}
	if raw != nil {
		return ErrAccountInUse
	}

	game := &inter.GameState{
		Authority:              e.ix.Signer,
		Treasury:               e.account(inter.RoleTreasury),
		CheckinIntervalSeconds: e.p.rules.DefaultCheckinInterval,
		Bump:                   e.p.gameBump,
	}
	if err := e.put(addr, game); err != nil {
		return err
	}
	e.log("Game initialized with authority: %s", game.Authority)
	e.log("Treasury: %s", game.Treasury)
	e.log("Check-in interval: %d seconds", game.CheckinIntervalSeconds)
	return nil
}

// loadGameAsAuthority loads the game state and checks the signer is its authority.
func (e *execution) loadGameAsAuthority() (*inter.GameState, error) {
	game, err := e.loadGame()
	if err != nil {
		return nil, err
	}
	if game.Authority != e.ix.Signer {
		return nil, ErrUnauthorized
	}
	return game, nil
}

// startBonusWindow opens window_id for BonusDuration seconds. Window ids only move forward.
func (e *execution) startBonusWindow() error {
	game, err := e.loadGameAsAuthority()
	if err != nil {
		return err
	}
	windowID := e.call.WindowID
	if windowID <= game.CurrentBonusWindow {
		return ErrAlreadyProcessed
	}
	end, err := addI64(e.now(), e.p.rules.BonusDuration)
	if err != nil {
		return err
	}

	game.CurrentBonusWindow = windowID
	game.BonusWindowEnd = end
	if err := e.put(e.p.gameAddr, game); err != nil {
		return err
	}
	e.log("Bonus window %d started!", windowID)
	e.log("Ends at: %d", end)
	return nil
}

// setCheckinInterval changes the period length for every player at once.
// Elapsed time is reinterpreted under the new interval.
func (e *execution) setCheckinInterval() error {
	game, err := e.loadGameAsAuthority()
	if err != nil {
		return err
	}
	seconds := e.call.IntervalSeconds
	if seconds <= 0 {
		return ErrInvalidInterval
	}

	old := game.CheckinIntervalSeconds
	game.CheckinIntervalSeconds = seconds
	if err := e.put(e.p.gameAddr, game); err != nil {
		return err
	}
	e.log("Check-in interval updated: %d -> %d seconds", old, seconds)
	e.log("That's %d minutes", seconds/60)
	return nil
}
