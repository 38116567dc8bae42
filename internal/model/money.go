package model

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// MaxAmount is the largest magnitude accepted for any stored amount. It
// keeps cents, and balances summed from them, well inside int64.
var MaxAmount = decimal.New(1, 13)

// HasCents reports whether d has at most two decimal places.
func HasCents(d decimal.Decimal) bool {
	return d.Mul(hundred).Equal(d.Mul(hundred).Floor())
}

// InRange reports whether |d| <= MaxAmount.
func InRange(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(MaxAmount)
}

// CheckAmount returns a ValidationError for field when d cannot be stored
// exactly as cents.
func CheckAmount(field string, d decimal.Decimal) error {
	if !HasCents(d) {
		return Invalid(field, "%s has more than 2 decimal places", d)
	}
	if !InRange(d) {
		return Invalid(field, "%s exceeds the maximum amount of %s", d, MaxAmount)
	}
	return nil
}

// ToCents converts d to integer minor units. d must pass CheckAmount.
func ToCents(d decimal.Decimal) int64 {
	return d.Shift(2).IntPart()
}

// FromCents converts integer minor units back to a decimal amount.
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
