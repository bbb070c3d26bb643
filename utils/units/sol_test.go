package units

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSOL(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want uint64
		err  error
	}{
		{"1", 1_000_000_000, nil},
		{"0.05", 50_000_000, nil},
		{" 0.1 SOL", 100_000_000, nil},
		{"2.000000001", 2_000_000_001, nil},
		{"0", 0, nil},
		{"50000000 lamports", 50_000_000, nil},
		{"18446744073.709551615", 18446744073709551615, nil},
		{"18446744073.709551616", 0, ErrTooLarge},
		{"0.0000000001", 0, ErrTooPrecise},
		{"1.5 lamports", 0, ErrTooPrecise},
		{"-1", 0, ErrNegativeAmount},
	} {
		got, err := ParseSOL(tc.in)
		if tc.err != nil {
			require.Equal(t, tc.err, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseSOL("abc")
	require.Error(t, err)
}

func TestFormatSOL(t *testing.T) {
	require.Equal(t, "0.100000000", FormatSOL(100_000_000))
	require.Equal(t, "0.000000001", FormatSOL(1))
	require.Equal(t, "2.000000000", FormatSOL(2_000_000_000))
	require.Equal(t, "0.1", FormatSOLShort(100_000_000))
	require.Equal(t, "0", FormatSOLShort(0))

	for _, lamports := range []uint64{0, 1, 94_500_000, 1<<63 + 7} {
		back, err := ParseSOL(FormatSOL(lamports))
		require.NoError(t, err)
		require.Equal(t, lamports, back)
	}
}
