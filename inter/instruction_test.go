package inter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-streak-ledger/inter/pubkey"
	"github.com/rony4d/go-streak-ledger/utils/borsh"
)

var testProgramID = pubkey.MustFromString("Eyz3yhxzGKemxF7JYT3Q9LCVCKLkim6unnzH4cMprkxW")

// The pinned tags must equal their sighash derivation and never collide.
func TestDiscriminators(t *testing.T) {
	require := require.New(t)

	seen := map[Discriminator]Opcode{}
	for _, op := range Opcodes() {
		d := op.Discriminator()
		require.Equal(SighashDiscriminator("global", op.String()), d, op.String())
		prev, dup := seen[d]
		require.False(dup, "%s collides with %s", op, prev)
		seen[d] = op
	}
	require.Len(seen, 9)

	require.Equal(SighashDiscriminator("account", "GameState"), GameStateDiscriminator)
	require.Equal(SighashDiscriminator("account", "Player"), PlayerDiscriminator)
	require.Equal("afaf6d1f0d989bed", InitializeDiscriminator.String())
}

func TestCallEncoding(t *testing.T) {
	ref := key(7)

	t.Run("stake with referrer", func(t *testing.T) {
		require := require.New(t)
		data := Call{Op: OpStake, Amount: 100_000_000, Referrer: &ref}.Encode()
		require.Len(data, 8+8+1+32)
		require.Equal(StakeDiscriminator[:], data[:8])
		require.Equal([]byte{0x00, 0xe1, 0xf5, 0x05, 0, 0, 0, 0}, data[8:16])
		require.Equal(byte(1), data[16])

		got, err := DecodeCall(data)
		require.NoError(err)
		require.Equal(OpStake, got.Op)
		require.Equal(uint64(100_000_000), got.Amount)
		require.Equal(ref, *got.Referrer)
	})

	t.Run("stake without referrer", func(t *testing.T) {
		require := require.New(t)
		data := Call{Op: OpStake, Amount: 50_000_000}.Encode()
		require.Len(data, 8+8+1)

		got, err := DecodeCall(data)
		require.NoError(err)
		require.Nil(got.Referrer)
	})

	t.Run("arguments", func(t *testing.T) {
		require := require.New(t)

		got, err := DecodeCall(Call{Op: OpStartBonusWindow, WindowID: 42}.Encode())
		require.NoError(err)
		require.Equal(uint64(42), got.WindowID)

		got, err = DecodeCall(Call{Op: OpSetCheckinInterval, IntervalSeconds: -60}.Encode())
		require.NoError(err)
		require.Equal(int64(-60), got.IntervalSeconds)

		for _, op := range []Opcode{OpInitialize, OpCheckin, OpClaimBonus, OpProcessDeath, OpWithdraw, OpClaimRewards} {
			data := Call{Op: op}.Encode()
			require.Len(data, 8)
			got, err := DecodeCall(data)
			require.NoError(err)
			require.Equal(op, got.Op)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		require := require.New(t)

		_, err := DecodeCall([]byte{1, 2, 3})
		require.Equal(ErrShortInstruction, err)

		_, err = DecodeCall(make([]byte, 8))
		require.True(errors.Is(err, ErrUnknownInstruction))

		stake := Call{Op: OpStake, Amount: 1}.Encode()
		_, err = DecodeCall(stake[:12])
		require.True(errors.Is(err, borsh.ErrMalformedEncoding))

		_, err = DecodeCall(append(Call{Op: OpCheckin}.Encode(), 0))
		require.True(errors.Is(err, borsh.ErrNonCanonicalEncoding))

		bad := append([]byte{}, stake...)
		bad[16] = 9
		_, err = DecodeCall(bad)
		require.True(errors.Is(err, borsh.ErrNonCanonicalEncoding))
	})
}

func TestBuilders(t *testing.T) {
	require := require.New(t)
	user, referrer, treasury := key(1), key(2), key(3)

	game, _ := GameStateAddress(testProgramID)
	require.Equal("7zF15EP8T9zXU6nL5XQggpWmmaCsAXPt1D5n2ZxiULaH", game.String())

	ix := NewStake(testProgramID, user, 50_000_000, &referrer)
	require.Equal(OpStake, ix.Op())
	require.Equal(user, ix.Signer)
	require.Len(ix.Accounts, len(OpStake.Layout()))
	require.Equal(game, ix.Account(OpStake, RoleGameState))
	refAddr, _ := PlayerAddress(testProgramID, referrer)
	require.Equal(refAddr, ix.Account(OpStake, RoleReferrer))
	require.Equal(user, ix.Account(OpStake, RoleSigner))

	solo := NewStake(testProgramID, user, 50_000_000, nil)
	require.True(solo.Account(OpStake, RoleReferrer).Zero())

	death := NewProcessDeath(testProgramID, treasury, user, []pubkey.Pubkey{referrer}, treasury)
	require.Len(death.Accounts, 7)
	require.Equal(refAddr, death.Account(OpProcessDeath, RoleReferrer1))
	require.True(death.Account(OpProcessDeath, RoleReferrer2).Zero())
	require.Equal(treasury, death.Account(OpProcessDeath, RoleTreasury))
	// the caller and the treasury are the same identity here
	require.Len(death.Touched(), 4)

	require.True(ix.Account(OpStake, RoleTreasury).Zero(), "stake has no treasury slot")
	require.Equal(OpUnknown, Instruction{}.Op())

	op, ok := OpcodeByName("set_checkin_interval")
	require.True(ok)
	require.Equal(OpSetCheckinInterval, op)
	_, ok = OpcodeByName("mint")
	require.False(ok)
}
