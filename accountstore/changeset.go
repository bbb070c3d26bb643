package accountstore

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-streak-ledger/inter/pubkey"
)

type recordPut struct {
	addr pubkey.Pubkey
	data []byte
}

type move struct {
	minted bool
	from   pubkey.Pubkey
	to     pubkey.Pubkey
	amount uint64
}

// ChangeSet collects record writes and balance moves for one atomic Commit.
type ChangeSet struct {
	records []recordPut
	moves   []move
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{}
}

// Put stores a full record image. A later Put to the same address wins.
func (cs *ChangeSet) Put(addr pubkey.Pubkey, data []byte) {
	cs.records = append(cs.records, recordPut{addr: addr, data: common.CopyBytes(data)})
}

// Transfer moves amount from one owner to another.
func (cs *ChangeSet) Transfer(from, to pubkey.Pubkey, amount uint64) {
	cs.moves = append(cs.moves, move{from: from, to: to, amount: amount})
}

// Mint credits amount to owner out of thin air. Only dev and fake nets use it.
func (cs *ChangeSet) Mint(to pubkey.Pubkey, amount uint64) {
	cs.moves = append(cs.moves, move{minted: true, to: to, amount: amount})
}

// Empty reports whether the change set would write nothing.
func (cs *ChangeSet) Empty() bool {
	return len(cs.records) == 0 && len(cs.moves) == 0
}
