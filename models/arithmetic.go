package models

import (
	"errors"
	"math"
)

// ErrArithmeticOverflow is returned when a balance computation would leave the
// int64 range. Ledger math must fail closed, never wrap.
var ErrArithmeticOverflow = errors.New("arithmetic overflow")

// CheckedAdd returns a + b, or ErrArithmeticOverflow.
func CheckedAdd(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

// CheckedSub returns a - b, or ErrArithmeticOverflow.
func CheckedSub(a, b int64) (int64, error) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, ErrArithmeticOverflow
	}
	return diff, nil
}

// CheckedMul returns a * b, or ErrArithmeticOverflow.
func CheckedMul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	// MinInt64 * -1 wraps to itself and passes the division check below
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, ErrArithmeticOverflow
	}
	product := a * b
	if product/b != a {
		return 0, ErrArithmeticOverflow
	}
	return product, nil
}
