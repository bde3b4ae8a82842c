// Package money represents currency amounts as whole currency units.
//
// The ledger never tracks fractional sub-units. Intermediate arithmetic
// (proportional splits, percentages) is carried out on decimal.Decimal and
// crosses back into Money only through Round, which rounds half away from
// zero. Round is the single rounding boundary for the whole module.
package money

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Tolerance is the absolute difference, in units, treated as rounding noise.
const Tolerance Money = 1

var hundred = decimal.NewFromInt(100)

// Money is an amount in whole currency units.
type Money int64

// Round converts a decimal amount to Money, rounding half away from zero.
func Round(d decimal.Decimal) Money {
	return Money(d.Round(0).IntPart())
}

// Parse parses a decimal string ("1500", "1499.5", "1.5e3") and rounds it.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Round(d), nil
}

// ParseExact parses a decimal string that must denote a whole amount.
// "1500" and "1.5e3" are accepted, "1499.5" is an error.
func ParseExact(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("amount %q is not a whole number of units", s)
	}
	return Money(d.IntPart()), nil
}

// Decimal returns m as a decimal for intermediate arithmetic.
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(m))
}

// Abs returns the absolute value of m.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// Within reports whether m and other differ by at most Tolerance.
func (m Money) Within(other Money) bool {
	return (m - other).Abs() <= Tolerance
}

func (m Money) String() string {
	return strconv.FormatInt(int64(m), 10)
}

// UnmarshalJSON accepts a JSON number or a quoted numeric string.
// Fractional values are rounded on the way in.
func (m *Money) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		s = string(data[1 : len(data)-1])
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Sum adds up amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}

// Percent returns pct percent of base without rounding.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}
