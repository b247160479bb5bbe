package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-supplied amount string into a decimal. It accepts
// both dot (12.34) and comma (12,34) separators. The value is rounded to two
// fractional digits, the precision the expense table stores.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}

// Cents converts an amount to integer cents, half-up rounded. The SQLite
// store keeps amounts this way to avoid floating point at rest.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// FromCents converts integer cents back to a two-digit decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
