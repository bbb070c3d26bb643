// Package units converts between lamports and human readable SOL amounts.
package units

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimals is the number of fractional SOL digits a lamport represents.
const Decimals = 9

var (
	ErrNegativeAmount = errors.New("amount is negative")
	ErrTooPrecise     = errors.New("amount has more than 9 decimal places")
	ErrTooLarge       = errors.New("amount does not fit in a u64 of lamports")
)

var maxLamports = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// ParseSOL parses "1.5", "0.05" or "2" SOL into lamports. A "lamports" suffix
// (e.g. "50000000 lamports") is taken verbatim.
func ParseSOL(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	shift := int32(Decimals)
	if trimmed := strings.TrimSuffix(s, "lamports"); trimmed != s {
		s = strings.TrimSpace(trimmed)
		shift = 0
	} else {
		s = strings.TrimSpace(strings.TrimSuffix(s, "SOL"))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}
	lamports := d.Shift(shift)
	if !lamports.IsInteger() {
		return 0, ErrTooPrecise
	}
	if lamports.GreaterThan(maxLamports) {
		return 0, ErrTooLarge
	}
	return lamports.BigInt().Uint64(), nil
}

// FormatSOL renders lamports as SOL with all nine decimals, e.g. "0.100000000".
func FormatSOL(lamports uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -Decimals).StringFixed(Decimals)
}

// FormatSOLShort renders lamports as SOL without trailing zeros, e.g. "0.1".
func FormatSOLShort(lamports uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -Decimals).String()
}
