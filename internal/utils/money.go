package utils

import (
	"errors"
	"regexp"

	"github.com/shopspring/decimal"
)

// Monetary values travel as exact decimal strings end to end; floats are only
// used client-side in the cart.
var amountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ErrInvalidAmount indicates a malformed or out-of-range decimal string.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount parses a non-negative decimal string with at most two fraction
// digits.
func ParseAmount(s string) (decimal.Decimal, error) {
	if !amountPattern.MatchString(s) {
		return decimal.Zero, ErrInvalidAmount
	}
	return decimal.NewFromString(s)
}

// ParsePrice is ParseAmount with the additional constraint that the value is
// strictly positive.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// LineSubtotal computes price × quantity.
func LineSubtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
