package pubkey

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const programIDStr = "Eyz3yhxzGKemxF7JYT3Q9LCVCKLkim6unnzH4cMprkxW"

func seqKey(start byte) Pubkey {
	var pk Pubkey
	for i := range pk {
		pk[i] = start + byte(i)
	}
	return pk
}

func TestFromString(t *testing.T) {
	require := require.New(t)

	exp := seqKey(1)

	got, err := FromString("4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw")
	require.NoError(err)
	require.Equal(exp, got)

	got, err = FromString("0x0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")
	require.NoError(err)
	require.Equal(exp, got)

	zero, err := FromString(strings.Repeat("1", 32))
	require.NoError(err)
	require.True(zero.Zero())

	_, err = FromString("")
	require.Equal(ErrEmpty, err)

	_, err = FromString("0x0102")
	require.Equal(ErrInvalidLength, err)

	_, err = FromString("0OIl")
	require.Error(err)
}

func TestString(t *testing.T) {
	require := require.New(t)

	require.Equal("4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw", seqKey(1).String())
	require.Equal(programIDStr, MustFromString(programIDStr).String())
	require.Equal(strings.Repeat("1", 32), Pubkey{}.String())
}

func TestJSON(t *testing.T) {
	require := require.New(t)

	type holder struct {
		Wallet Pubkey `json:"wallet"`
	}
	in := holder{Wallet: seqKey(1)}

	raw, err := json.Marshal(in)
	require.NoError(err)
	require.Equal(`{"wallet":"4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw"}`, string(raw))

	var out holder
	require.NoError(json.Unmarshal(raw, &out))
	require.Equal(in, out)
}

func TestBytesIsCopy(t *testing.T) {
	pk := seqKey(1)
	b := pk.Bytes()
	b[0] = 0xff
	require.Equal(t, byte(1), pk[0])
}

func TestLess(t *testing.T) {
	require := require.New(t)
	a, b := seqKey(1), seqKey(2)
	require.True(a.Less(b))
	require.False(b.Less(a))
	require.False(a.Less(a))
}

// Vectors published with Solana's create_program_address.
func TestCreateProgramAddress(t *testing.T) {
	require := require.New(t)

	program := MustFromString("BPFLoaderUpgradeab1e11111111111111111111111")
	seedKey := MustFromString("SeedPubey1111111111111111111111111111111111")

	cases := []struct {
		seeds [][]byte
		want  string
	}{
		{[][]byte{{}, {1}}, "BwqrghZA2htAcqq8dzP1WDAhTXYTYWj7CHxF5j7TDBAe"},
		{[][]byte{[]byte("☉"), {0}}, "13yWmRpaTR4r5nAktwLqMpRNr28tnVUZw26rTvPSSB19"},
		{[][]byte{[]byte("Talking"), []byte("Squirrels")}, "2fnQrngrQT4SeLcdToJAD96phoEjNL2man2kfRLCASVk"},
		{[][]byte{seedKey[:], {1}}, "976ymqVnfE32QFe6NfGDctSvVa36LWnvYxhU6G2232YL"},
	}
	for _, c := range cases {
		got, err := CreateProgramAddress(c.seeds, program)
		require.NoError(err)
		require.Equal(c.want, got.String())
		require.False(OnCurve(got))
	}

	_, err := CreateProgramAddress([][]byte{make([]byte, MaxSeedLength+1)}, program)
	require.Equal(ErrMaxSeedLengthExceeded, err)

	_, err = CreateProgramAddress(make([][]byte, MaxSeeds+1), program)
	require.Equal(ErrMaxSeedsExceeded, err)
}

func TestFindProgramAddress(t *testing.T) {
	program := MustFromString(programIDStr)

	t.Run("game state", func(t *testing.T) {
		addr, bump, err := FindProgramAddress([][]byte{[]byte("game_state")}, program)
		require.NoError(t, err)
		require.Equal(t, "7zF15EP8T9zXU6nL5XQggpWmmaCsAXPt1D5n2ZxiULaH", addr.String())
		require.Equal(t, uint8(255), bump)
	})

	t.Run("player", func(t *testing.T) {
		wallet := seqKey(1)
		addr, bump, err := FindProgramAddress([][]byte{[]byte("player"), wallet[:]}, program)
		require.NoError(t, err)
		require.Equal(t, "AWtyL9osxytXsmRYL8z6qqaZakhcWLzjj2zEs8BH6YW4", addr.String())
		require.Equal(t, uint8(255), bump)
	})

	t.Run("bump search skips on-curve hashes", func(t *testing.T) {
		var wallet Pubkey
		for i := range wallet {
			wallet[i] = 3
		}
		addr, bump, err := FindProgramAddress([][]byte{[]byte("player"), wallet[:]}, program)
		require.NoError(t, err)
		require.Equal(t, uint8(254), bump)
		require.Equal(t, "12u68yvfoYpHkJQZ9SkDE1Thn7qkhb6jxRkd2DMA1edG", addr.String())

		_, err = CreateProgramAddress([][]byte{[]byte("player"), wallet[:], {255}}, program)
		require.Equal(t, ErrInvalidSeeds, err)
	})
}
