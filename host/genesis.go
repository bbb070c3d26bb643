package host

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-streak-ledger/inter"
	"github.com/rony4d/go-streak-ledger/inter/pubkey"
)

// FakeGenesisTime is the clock reading at which fake ledgers are initialized.
var FakeGenesisTime int64 = 1608600000

// ApplyFakeGenesis funds every wallet in balances and initializes the game with
// the given authority and treasury, all at FakeGenesisTime. Wallets are funded in
// key order so the journal is the same on every run.
func ApplyFakeGenesis(ctx context.Context, l *Ledger, authority, treasury pubkey.Pubkey, balances map[pubkey.Pubkey]uint64) error {
	owners := make([]pubkey.Pubkey, 0, len(balances))
	for owner := range balances {
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i].Less(owners[j]) })

	for _, owner := range owners {
		if err := l.AirdropAt(ctx, owner, balances[owner], FakeGenesisTime); err != nil {
			return err
		}
	}
	ix := inter.NewInitialize(l.proc.Rules().ProgramID, authority, treasury)
	if _, err := l.ApplyAt(ctx, ix, FakeGenesisTime); err != nil {
		return fmt.Errorf("genesis initialize: %w", err)
	}
	return nil
}

// MustApplyFakeGenesis is ApplyFakeGenesis that exits on failure.
func MustApplyFakeGenesis(ctx context.Context, l *Ledger, authority, treasury pubkey.Pubkey, balances map[pubkey.Pubkey]uint64) {
	if err := ApplyFakeGenesis(ctx, l, authority, treasury, balances); err != nil {
		logrus.WithError(err).Fatal("ApplyFakeGenesis")
	}
}

// FakeKey generates a deterministic ed25519 key. The same n always yields the same key.
func FakeKey(n int) ed25519.PrivateKey {
	reader := rand.New(rand.NewSource(int64(n)))
	_, key, err := ed25519.GenerateKey(reader)
	if err != nil {
		panic(err)
	}
	return key
}

// FakeWallet is the public half of FakeKey(n).
func FakeWallet(n int) pubkey.Pubkey {
	var pk pubkey.Pubkey
	copy(pk[:], FakeKey(n).Public().(ed25519.PublicKey))
	return pk
}
