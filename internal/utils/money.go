package utils

import (
	"fmt"

	"carrental-settlement-backend/internal/domain"
)

// Checked arithmetic over smallest-currency-unit amounts. The settlement
// engine rejects any computation that would wrap rather than carrying a
// silently corrupted balance.

// CheckedMul returns a*b or ErrArithmeticOverflow.
func CheckedMul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/a != b {
		return 0, fmt.Errorf("%d * %d: %w", a, b, domain.ErrArithmeticOverflow)
	}
	return product, nil
}

// CheckedAdd returns a+b or ErrArithmeticOverflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, fmt.Errorf("%d + %d: %w", a, b, domain.ErrArithmeticOverflow)
	}
	return sum, nil
}

// CheckedSub returns a-b, or ErrArithmeticOverflow when b > a. The
// unsigned domain has no negative amounts, so underflow is an arithmetic
// failure, not a credit.
func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, fmt.Errorf("%d - %d: %w", a, b, domain.ErrArithmeticOverflow)
	}
	return a - b, nil
}
