// Package money formats amounts stored as int64 minor units (cents).
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrOutOfRange reports a negative operand or an int64 overflow.
var ErrOutOfRange = errors.New("amount out of range")

// Amount returns the decimal representation of cents, e.g. 1250 -> "12.50".
func Amount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Format renders cents with a trailing currency symbol, e.g. "12.50 €".
func Format(cents int64, symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return Amount(cents)
	}
	return Amount(cents) + " " + symbol
}

// LineTotal is quantity × unit price.
func LineTotal(quantity int, unitPrice int64) (int64, error) {
	if quantity < 0 || unitPrice < 0 {
		return 0, ErrOutOfRange
	}
	if quantity != 0 && unitPrice > math.MaxInt64/int64(quantity) {
		return 0, ErrOutOfRange
	}
	return int64(quantity) * unitPrice, nil
}

// Add sums non-negative amounts.
func Add(a, b int64) (int64, error) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, ErrOutOfRange
	}
	return a + b, nil
}
