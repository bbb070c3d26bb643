// Package accountstore keeps ledger records and native balances in a
// key-value database.
//
// Records live under their derived address and balances under their owner.
// Every change an instruction makes is committed in a single batch, so a
// reader never observes half of an instruction.
package accountstore

import (
	"errors"
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/Fantom-foundation/lachesis-base/kvdb"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/rony4d/go-streak-ledger/inter"
	"github.com/rony4d/go-streak-ledger/inter/pubkey"
)

/*
	Key layout:

	'r' || address  ->  raw record (fixed size, kind discriminator first)
	'b' || owner    ->  balance, big-endian u64
*/

var (
	recordPrefix  = []byte("r")
	balancePrefix = []byte("b")
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("balance overflow")
	ErrCorruptBalance      = errors.New("balance entry is not 8 bytes")
)

// Store is the account store. It is safe for concurrent reads; writers must be
// serialized per address by the caller.
type Store struct {
	db kvdb.Store
}

func New(db kvdb.Store) *Store {
	return &Store{db: db}
}

func recordKey(addr pubkey.Pubkey) []byte {
	return append(common.CopyBytes(recordPrefix), addr[:]...)
}

func balanceKey(owner pubkey.Pubkey) []byte {
	return append(common.CopyBytes(balancePrefix), owner[:]...)
}

func (s *Store) get(key []byte) ([]byte, error) {
	ok, err := s.db.Has(key)
	if err != nil || !ok {
		return nil, err
	}
	return s.db.Get(key)
}

// Account returns the raw record at addr, or nil if there is none.
func (s *Store) Account(addr pubkey.Pubkey) ([]byte, error) {
	raw, err := s.get(recordKey(addr))
	if err != nil {
		return nil, err
	}
	return common.CopyBytes(raw), nil
}

// Balance returns the native balance of owner. Unknown owners hold zero.
func (s *Store) Balance(owner pubkey.Pubkey) (uint64, error) {
	raw, err := s.get(balanceKey(owner))
	if err != nil || raw == nil {
		return 0, err
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("%w: %s", ErrCorruptBalance, owner)
	}
	return bigendian.BytesToUint64(raw), nil
}

// GameState decodes the record at addr. A missing record is (nil, nil).
func (s *Store) GameState(addr pubkey.Pubkey) (*inter.GameState, error) {
	raw, err := s.Account(addr)
	if err != nil || raw == nil {
		return nil, err
	}
	g := new(inter.GameState)
	if err := g.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("game state %s: %w", addr, err)
	}
	return g, nil
}

// Player decodes the record at addr. A missing record is (nil, nil).
func (s *Store) Player(addr pubkey.Pubkey) (*inter.Player, error) {
	raw, err := s.Account(addr)
	if err != nil || raw == nil {
		return nil, err
	}
	p := new(inter.Player)
	if err := p.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("player %s: %w", addr, err)
	}
	return p, nil
}

// ForEachRecord calls fn for every stored record of the given kind, in address order.
// UnknownRecord matches every record.
func (s *Store) ForEachRecord(kind inter.RecordKind, fn func(addr pubkey.Pubkey, raw []byte) error) error {
	it := s.db.NewIterator(recordPrefix, nil)
	defer it.Release()
	for it.Next() {
		raw := it.Value()
		if kind != inter.UnknownRecord && inter.KindOf(raw) != kind {
			continue
		}
		addr, err := pubkey.FromBytes(it.Key()[len(recordPrefix):])
		if err != nil {
			return err
		}
		if err := fn(addr, common.CopyBytes(raw)); err != nil {
			return err
		}
	}
	return it.Error()
}

// ForEachBalance calls fn for every owner with a stored balance, in owner order.
func (s *Store) ForEachBalance(fn func(owner pubkey.Pubkey, balance uint64) error) error {
	it := s.db.NewIterator(balancePrefix, nil)
	defer it.Release()
	for it.Next() {
		owner, err := pubkey.FromBytes(it.Key()[len(balancePrefix):])
		if err != nil {
			return err
		}
		if len(it.Value()) != 8 {
			return fmt.Errorf("%w: %s", ErrCorruptBalance, owner)
		}
		if err := fn(owner, bigendian.BytesToUint64(it.Value())); err != nil {
			return err
		}
	}
	return it.Error()
}

// Commit applies cs in one batch. Moves are applied in order; if any of them
// would overdraw or overflow a balance nothing is written.
func (s *Store) Commit(cs *ChangeSet) error {
	balances := make(map[pubkey.Pubkey]uint64)
	load := func(owner pubkey.Pubkey) (uint64, error) {
		if bal, ok := balances[owner]; ok {
			return bal, nil
		}
		return s.Balance(owner)
	}

	for _, m := range cs.moves {
		if !m.minted {
			bal, err := load(m.from)
			if err != nil {
				return err
			}
			if bal < m.amount {
				return fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientBalance, m.from, bal, m.amount)
			}
			balances[m.from] = bal - m.amount
		}
		bal, err := load(m.to)
		if err != nil {
			return err
		}
		sum, overflow := math.SafeAdd(bal, m.amount)
		if overflow {
			return fmt.Errorf("%w: %s", ErrBalanceOverflow, m.to)
		}
		balances[m.to] = sum
	}

	batch := s.db.NewBatch()
	for _, w := range cs.records {
		if err := batch.Put(recordKey(w.addr), w.data); err != nil {
			return err
		}
	}
	for owner, bal := range balances {
		if err := batch.Put(balanceKey(owner), bigendian.Uint64ToBytes(bal)); err != nil {
			return err
		}
	}
	return batch.Write()
}

func (s *Store) Close() error {
	return s.db.Close()
}
