// Package host runs the rules engine against a persistent account store.
//
// The engine itself only computes receipts. The host supplies what it leaves
// out: the clock, mutual exclusion per record address, atomic commit of a
// receipt's writes and transfers, logging, and an optional journal of every
// submitted instruction.
package host

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-streak-ledger/accountstore"
	"github.com/rony4d/go-streak-ledger/inter"
	"github.com/rony4d/go-streak-ledger/inter/pubkey"
	"github.com/rony4d/go-streak-ledger/streak"
	"github.com/rony4d/go-streak-ledger/streakcore"
)

var ErrAirdropDisabled = errors.New("airdrops are disabled on this ledger")

// Recorder journals instructions and airdrops as the host decides them. It is
// called while the affected records are still locked.
type Recorder interface {
	RecordInstruction(ctx context.Context, ix inter.Instruction, now int64, err error) error
	RecordAirdrop(ctx context.Context, owner pubkey.Pubkey, lamports uint64, now int64) error
}

// Config assembles a Ledger. Zero values select the defaults.
type Config struct {
	Rules streak.Rules
	// Clock returns the current unix time in seconds. Defaults to the wall clock.
	Clock func() int64
	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
	// Recorder, if set, receives every decided instruction.
	Recorder Recorder
	// AllowAirdrop enables Airdrop, for dev and fake ledgers.
	AllowAirdrop bool
}

// Ledger is safe for concurrent use.
type Ledger struct {
	proc     *streakcore.Processor
	store    *accountstore.Store
	locks    *lockTable
	clock    func() int64
	log      logrus.FieldLogger
	recorder Recorder
	airdrops bool
}

func New(store *accountstore.Store, cfg Config) *Ledger {
	l := &Ledger{
		proc:     streakcore.NewProcessor(cfg.Rules),
		store:    store,
		locks:    newLockTable(),
		clock:    cfg.Clock,
		log:      cfg.Logger,
		recorder: cfg.Recorder,
		airdrops: cfg.AllowAirdrop,
	}
	if l.clock == nil {
		l.clock = func() int64 { return time.Now().Unix() }
	}
	if l.log == nil {
		l.log = logrus.StandardLogger()
	}
	return l
}

func (l *Ledger) Processor() *streakcore.Processor {
	return l.proc
}

func (l *Ledger) Store() *accountstore.Store {
	return l.store
}

// Now is the ledger clock.
func (l *Ledger) Now() int64 {
	return l.clock()
}

// Submit applies ix at the current clock time.
func (l *Ledger) Submit(ctx context.Context, ix inter.Instruction) (*streakcore.Receipt, error) {
	return l.ApplyAt(ctx, ix, l.clock())
}

// ApplyAt applies ix as if the clock read now. Rejected instructions leave the
// store untouched and are still journaled.
func (l *Ledger) ApplyAt(ctx context.Context, ix inter.Instruction, now int64) (*streakcore.Receipt, error) {
	return l.apply(ctx, ix, now, l.recorder)
}

// Replay applies a journaled instruction without journaling it again.
func (l *Ledger) Replay(ctx context.Context, ix inter.Instruction, now int64) error {
	_, err := l.apply(ctx, ix, now, nil)
	return err
}

// apply decides ix and, when rec is set, journals the decision before the
// record locks are released, so that conflicting instructions are journaled
// in the order they were applied.
func (l *Ledger) apply(ctx context.Context, ix inter.Instruction, now int64, rec Recorder) (*streakcore.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unlock := l.locks.lock(ix.Touched())
	defer unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := l.log.WithFields(logrus.Fields{
		"op":     ix.Op().String(),
		"signer": ix.Signer.String(),
		"now":    now,
	})

	receipt, err := l.proc.Process(streakcore.Env{Now: now, Accounts: l.store}, ix)
	if err == nil {
		err = l.store.Commit(changeSet(receipt))
	}
	if rec != nil {
		// journal even if ctx is canceled after the commit
		if rerr := rec.RecordInstruction(context.WithoutCancel(ctx), ix, now, err); rerr != nil {
			log.WithError(rerr).Error("Failed to journal instruction")
		}
	}
	if err != nil {
		if code := streakcore.CodeOf(err); code != 0 {
			log = log.WithField("code", code)
		}
		log.WithError(err).Debug("Instruction rejected")
		return nil, err
	}

	for _, line := range receipt.Logs {
		log.Debug(line)
	}
	log.WithFields(logrus.Fields{
		"writes":    len(receipt.Writes),
		"transfers": len(receipt.Transfers),
	}).Info("Instruction applied")
	return receipt, nil
}

func changeSet(r *streakcore.Receipt) *accountstore.ChangeSet {
	cs := accountstore.NewChangeSet()
	for _, w := range r.Writes {
		cs.Put(w.Address, w.Data)
	}
	for _, t := range r.Transfers {
		cs.Transfer(t.From, t.To, t.Amount)
	}
	return cs
}

// Airdrop credits lamports to owner. Only ledgers built with AllowAirdrop accept it.
func (l *Ledger) Airdrop(ctx context.Context, owner pubkey.Pubkey, lamports uint64) error {
	return l.AirdropAt(ctx, owner, lamports, l.clock())
}

// AirdropAt is Airdrop with an explicit journal timestamp.
func (l *Ledger) AirdropAt(ctx context.Context, owner pubkey.Pubkey, lamports uint64, now int64) error {
	return l.airdrop(ctx, owner, lamports, now, l.recorder)
}

// ReplayAirdrop re-applies a journaled airdrop without journaling it again.
func (l *Ledger) ReplayAirdrop(ctx context.Context, owner pubkey.Pubkey, lamports uint64, now int64) error {
	return l.airdrop(ctx, owner, lamports, now, nil)
}

func (l *Ledger) airdrop(ctx context.Context, owner pubkey.Pubkey, lamports uint64, now int64, rec Recorder) error {
	if !l.airdrops {
		return ErrAirdropDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock := l.locks.lock([]pubkey.Pubkey{owner})
	defer unlock()

	cs := accountstore.NewChangeSet()
	cs.Mint(owner, lamports)
	if err := l.store.Commit(cs); err != nil {
		return fmt.Errorf("airdrop to %s: %w", owner, err)
	}
	log := l.log.WithFields(logrus.Fields{"owner": owner.String(), "lamports": lamports, "now": now})
	if rec != nil {
		if err := rec.RecordAirdrop(context.WithoutCancel(ctx), owner, lamports, now); err != nil {
			log.WithError(err).Error("Failed to journal airdrop")
		}
	}
	log.Info("Airdrop")
	return nil
}

func (l *Ledger) Balance(owner pubkey.Pubkey) (uint64, error) {
	return l.store.Balance(owner)
}

// GameState returns the singleton, or nil before initialize.
func (l *Ledger) GameState() (*inter.GameState, error) {
	return l.store.GameState(l.proc.GameStateAddress())
}

// Player returns wallet's record, or nil if wallet never staked.
func (l *Ledger) Player(wallet pubkey.Pubkey) (*inter.Player, error) {
	return l.store.Player(l.proc.PlayerAddress(wallet))
}

// PlayerStatus is a player record with its liveness evaluated at Now.
type PlayerStatus struct {
	Address  pubkey.Pubkey          `json:"address"`
	Player   *inter.Player          `json:"player"`
	State    string                 `json:"state"`
	Now      int64                  `json:"now"`
	Deadline int64                  `json:"deadline,omitempty"`
	Kind     streakcore.PlayerState `json:"-"`
}

// Status evaluates wallet's liveness at the current clock.
func (l *Ledger) Status(wallet pubkey.Pubkey) (*PlayerStatus, error) {
	game, err := l.GameState()
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, streakcore.ErrNotInitialized
	}
	p, err := l.Player(wallet)
	if err != nil {
		return nil, err
	}
	now := l.clock()
	interval := game.CheckinIntervalSeconds
	st := &PlayerStatus{
		Address: l.proc.PlayerAddress(wallet),
		Player:  p,
		Now:     now,
		Kind:    streakcore.StateOf(p, now, interval),
	}
	st.State = st.Kind.String()
	if st.Kind == streakcore.Alive || st.Kind == streakcore.DeadPending {
		st.Deadline = streakcore.Deadline(p, interval)
	}
	return st, nil
}

// DeadPlayers lists the wallets of active players that are dead at the current clock,
// in record address order. Keepers use it to find process_death candidates.
func (l *Ledger) DeadPlayers() ([]pubkey.Pubkey, error) {
	game, err := l.GameState()
	if err != nil || game == nil {
		return nil, err
	}
	now := l.clock()
	var dead []pubkey.Pubkey
	err = l.store.ForEachRecord(inter.PlayerRecord, func(_ pubkey.Pubkey, raw []byte) error {
		p := new(inter.Player)
		if err := p.UnmarshalBinary(raw); err != nil {
			return err
		}
		if streakcore.IsDead(p, now, game.CheckinIntervalSeconds) {
			dead = append(dead, p.Wallet)
		}
		return nil
	})
	return dead, err
}

// Ancestors returns up to three referrer wallets of wallet, nearest first,
// ready to pass to inter.NewProcessDeath.
func (l *Ledger) Ancestors(wallet pubkey.Pubkey) ([]pubkey.Pubkey, error) {
	var out []pubkey.Pubkey
	p, err := l.Player(wallet)
	if err != nil || p == nil {
		return nil, err
	}
	for next := p.Referrer; next != nil && len(out) < streak.MaxReferralLevels; {
		out = append(out, *next)
		rec, err := l.Player(*next)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			break
		}
		next = rec.Referrer
	}
	return out, nil
}
