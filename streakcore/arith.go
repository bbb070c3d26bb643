package streakcore

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/rony4d/go-streak-ledger/streak"
)

// Checked arithmetic. Every overflow surfaces as ErrOverflow.

func addU64(a, b uint64) (uint64, error) {
	sum, overflow := math.SafeAdd(a, b)
	if overflow {
		return 0, ErrOverflow
	}
	return sum, nil
}

func subU64(a, b uint64) (uint64, error) {
	diff, overflow := math.SafeSub(a, b)
	if overflow {
		return 0, ErrOverflow
	}
	return diff, nil
}

// bpsOf returns amount * bps / 10000, rounded down.
func bpsOf(amount, bps uint64) (uint64, error) {
	prod, overflow := math.SafeMul(amount, bps)
	if overflow {
		return 0, ErrOverflow
	}
	return prod / streak.BpsDenominator, nil
}

// grow adds bps of amount to amount.
func grow(amount, bps uint64) (grown, growth uint64, err error) {
	if growth, err = bpsOf(amount, bps); err != nil {
		return 0, 0, err
	}
	if grown, err = addU64(amount, growth); err != nil {
		return 0, 0, err
	}
	return grown, growth, nil
}

func incU32(v uint32) (uint32, error) {
	if v == ^uint32(0) {
		return 0, ErrOverflow
	}
	return v + 1, nil
}

func incU8(v uint8) (uint8, error) {
	if v == ^uint8(0) {
		return 0, ErrOverflow
	}
	return v + 1, nil
}

func addI64(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrOverflow
	}
	return sum, nil
}
