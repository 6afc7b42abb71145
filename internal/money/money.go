// Package money holds the fixed-point currency helpers shared by the calculator,
// storage and service layers. All amounts are decimal values with two places of
// currency precision; float64 is never used for money.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places of currency precision.
const Places = 2

var (
	// Tolerance is the threshold below which a balance or transfer is treated as zero.
	Tolerance = decimal.New(1, -Places)

	// ErrInvalidAmount is returned when an amount cannot be parsed.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNoShares is returned when an amount is divided into zero shares.
	ErrNoShares = errors.New("at least one share is required")
)

// Parse reads a decimal string such as "125.50".
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// Round rounds to currency precision, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Format renders an amount with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// IsZero reports whether |d| is below Tolerance.
func IsZero(d decimal.Decimal) bool {
	return d.Abs().LessThan(Tolerance)
}

// Within reports whether a and b differ by at most Tolerance.
func Within(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// Sum adds the given amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Cents converts an amount to integer minor units after rounding.
func Cents(d decimal.Decimal) int64 {
	return Round(d).Shift(Places).IntPart()
}

// FromCents converts integer minor units back to an amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -Places)
}

// EqualShares divides total into n shares that sum exactly to the rounded total.
// Residue cents go one each to the first shares, so 100.00 / 3 yields
// 33.34, 33.33, 33.33.
func EqualShares(total decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, ErrNoShares
	}
	if total.IsNegative() {
		return nil, fmt.Errorf("%w: negative total %s", ErrInvalidAmount, total)
	}

	cents := Cents(total)
	base := cents / int64(n)
	residue := cents % int64(n)

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		c := base
		if int64(i) < residue {
			c++
		}
		shares[i] = FromCents(c)
	}
	return shares, nil
}
