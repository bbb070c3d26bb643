package journal

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-streak-ledger/inter"
	"github.com/rony4d/go-streak-ledger/inter/pubkey"
)

// Target is what Replay drives. host.Ledger implements it.
type Target interface {
	Replay(ctx context.Context, ix inter.Instruction, now int64) error
	ReplayAirdrop(ctx context.Context, owner pubkey.Pubkey, lamports uint64, now int64) error
}

// Replay re-applies every accepted entry of j to target in Seq order and
// returns how many were applied. An entry the target now rejects means the
// target did not start from the journal's initial state.
func Replay(ctx context.Context, j *Journal, target Target) (int, error) {
	entries, err := j.Entries(ctx, Filter{AcceptedOnly: true})
	if err != nil {
		return 0, err
	}
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		switch e.Kind {
		case KindAirdrop:
			owner, err := pubkey.FromString(e.Signer)
			if err != nil {
				return i, err
			}
			err = target.ReplayAirdrop(ctx, owner, e.Lamports, e.Now)
			if err != nil {
				return i, fmt.Errorf("%w: airdrop %d: %v", ErrDiverged, e.Seq, err)
			}
		case KindInstruction:
			ix, err := e.Instruction()
			if err != nil {
				return i, err
			}
			if err := target.Replay(ctx, ix, e.Now); err != nil {
				return i, fmt.Errorf("%w: %s %d: %v", ErrDiverged, e.Op, e.Seq, err)
			}
		default:
			return i, fmt.Errorf("entry %d: unknown kind %q", e.Seq, e.Kind)
		}
		j.log.WithFields(logrus.Fields{"seq": e.Seq, "kind": e.Kind, "op": e.Op}).Debug("Replayed entry")
	}
	return len(entries), nil
}
