// Package streakcore is the ledger rules engine.
//
// A Processor validates one instruction against the records it names and
// returns the new record images and balance transfers as a Receipt. It never
// writes anything itself: the host commits a receipt atomically, or drops
// it, so an instruction that returns an error leaves every record untouched.
//
// The processor holds no mutable state and performs no I/O beyond the reads
// it makes through Env.Accounts.
package streakcore

import (
	"encoding"
	"fmt"

	"github.com/rony4d/go-streak-ledger/inter"
	"github.com/rony4d/go-streak-ledger/inter/pubkey"
	"github.com/rony4d/go-streak-ledger/streak"
)

// AccountReader is the read side of the account store, as seen by one instruction.
type AccountReader interface {
	// Account returns the raw record at addr, or nil if there is none.
	Account(addr pubkey.Pubkey) ([]byte, error)
	// Balance returns the native balance held by owner.
	Balance(owner pubkey.Pubkey) (uint64, error)
}

// Env is everything an instruction may observe besides its own payload.
type Env struct {
	Now      int64
	Accounts AccountReader
}

// Write is a full record image to store at Address.
type Write struct {
	Address pubkey.Pubkey
	Data    []byte
}

// Transfer moves native balance between two owners.
type Transfer struct {
	From   pubkey.Pubkey
	To     pubkey.Pubkey
	Amount uint64
}

// Receipt is the outcome of an accepted instruction.
type Receipt struct {
	Op        inter.Opcode
	Writes    []Write
	Transfers []Transfer
	Logs      []string
}

// Processor applies instructions under one set of rules.
type Processor struct {
	rules    streak.Rules
	gameAddr pubkey.Pubkey
	gameBump uint8
}

// NewProcessor derives the game state address from rules.ProgramID.
func NewProcessor(rules streak.Rules) *Processor {
	addr, bump := inter.GameStateAddress(rules.ProgramID)
	return &Processor{
		rules:    rules,
		gameAddr: addr,
		gameBump: bump,
	}
}

func (p *Processor) Rules() streak.Rules {
	return p.rules
}

// GameStateAddress is also the vault: staked funds are held by the game state account.
func (p *Processor) GameStateAddress() pubkey.Pubkey {
	return p.gameAddr
}

func (p *Processor) PlayerAddress(wallet pubkey.Pubkey) pubkey.Pubkey {
	addr, _ := inter.PlayerAddress(p.rules.ProgramID, wallet)
	return addr
}

type handler func(*execution) error

var handlers = map[inter.Opcode]handler{
	inter.OpInitialize:         (*execution).initialize,
	inter.OpStake:              (*execution).stake,
	inter.OpCheckin:            (*execution).checkin,
	inter.OpClaimBonus:         (*execution).claimBonus,
	inter.OpProcessDeath:       (*execution).processDeath,
	inter.OpWithdraw:           (*execution).withdraw,
	inter.OpClaimRewards:       (*execution).claimRewards,
	inter.OpStartBonusWindow:   (*execution).startBonusWindow,
	inter.OpSetCheckinInterval: (*execution).setCheckinInterval,
}

// Process validates and applies ix. On error the returned receipt is nil.
func (p *Processor) Process(env Env, ix inter.Instruction) (*Receipt, error) {
	call, err := inter.DecodeCall(ix.Data)
	if err != nil {
		return nil, err
	}
	layout := call.Op.Layout()
	if len(ix.Accounts) != len(layout) {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrAccountCount, call.Op, len(layout), len(ix.Accounts))
	}
	for i, role := range layout {
		if !role.Optional() && ix.Accounts[i].Zero() {
			return nil, fmt.Errorf("%w: %s slot %d", ErrMissingAccount, call.Op, i)
		}
	}
	if ix.Account(call.Op, inter.RoleSigner) != ix.Signer {
		return nil, ErrUnauthorized
	}
	if env.Now < 0 {
		return nil, ErrInvalidTimestamp
	}

	e := &execution{
		p:       p,
		env:     env,
		ix:      ix,
		call:    call,
		receipt: &Receipt{Op: call.Op},
	}
	if err := handlers[call.Op](e); err != nil {
		return nil, err
	}
	return e.receipt, nil
}

// execution is the state of one Process call.
type execution struct {
	p       *Processor
	env     Env
	ix      inter.Instruction
	call    inter.Call
	receipt *Receipt
}

func (e *execution) account(role inter.AccountRole) pubkey.Pubkey {
	return e.ix.Account(e.call.Op, role)
}

func (e *execution) now() int64 {
	return e.env.Now
}

func (e *execution) economy() streak.EconomyRules {
	return e.p.rules.Economy
}

func (e *execution) loadGame() (*inter.GameState, error) {
	addr := e.account(inter.RoleGameState)
	if addr != e.p.gameAddr {
		return nil, ErrUnauthorized
	}
	raw, err := e.env.Accounts.Account(addr)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotInitialized
	}
	g := new(inter.GameState)
	if err := g.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptGameRecord, err)
	}
	if g.CheckinIntervalSeconds <= 0 {
		return nil, ErrCorruptGameRecord
	}
	return g, nil
}

// readPlayer decodes the record at addr. A missing record is (nil, nil).
func (e *execution) readPlayer(addr pubkey.Pubkey) (*inter.Player, error) {
	raw, err := e.env.Accounts.Account(addr)
	if err != nil || raw == nil {
		return nil, err
	}
	p := new(inter.Player)
	if err := p.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("player %s: %w", addr, err)
	}
	return p, nil
}

// loadOwnPlayer reads the signer's record after checking the slot holds the
// signer's derived address.
func (e *execution) loadOwnPlayer() (*inter.Player, error) {
	addr := e.account(inter.RolePlayer)
	if addr != e.p.PlayerAddress(e.ix.Signer) {
		return nil, ErrUnauthorized
	}
	return e.readPlayer(addr)
}

// checkClock rejects a clock that runs behind the player's last check-in.
func (e *execution) checkClock(p *inter.Player) error {
	if e.now() < p.LastCheckin {
		return ErrInvalidTimestamp
	}
	return nil
}

func (e *execution) put(addr pubkey.Pubkey, rec encoding.BinaryMarshaler) error {
	raw, err := rec.MarshalBinary()
	if err != nil {
		return err
	}
	e.receipt.Writes = append(e.receipt.Writes, Write{Address: addr, Data: raw})
	return nil
}

func (e *execution) transfer(from, to pubkey.Pubkey, amount uint64) {
	if amount == 0 {
		return
	}
	e.receipt.Transfers = append(e.receipt.Transfers, Transfer{From: from, To: to, Amount: amount})
}

// checkVault fails unless the vault can pay out amount.
func (e *execution) checkVault(amount uint64) error {
	bal, err := e.env.Accounts.Balance(e.p.gameAddr)
	if err != nil {
		return err
	}
	if bal < amount {
		return ErrInsufficientFunds
	}
	return nil
}

func (e *execution) log(format string, args ...interface{}) {
	e.receipt.Logs = append(e.receipt.Logs, fmt.Sprintf(format, args...))
}
