package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParse(t *testing.T) {
	got, err := Parse(" 125.50 ")
	require.NoError(t, err)
	assert.True(t, got.Equal(d("125.5")))

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Parse("12,50")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFormatAndRound(t *testing.T) {
	assert.Equal(t, "45.00", Format(d("45")))
	assert.Equal(t, "0.01", Format(Round(d("0.005"))))
	assert.Equal(t, "-0.01", Format(Round(d("-0.005"))))
	assert.Equal(t, "33.33", Format(Round(d("33.333333"))))
}

func TestToleranceChecks(t *testing.T) {
	assert.True(t, IsZero(d("0.005")))
	assert.True(t, IsZero(d("-0.0099")))
	assert.False(t, IsZero(d("0.01")))

	assert.True(t, Within(d("100.00"), d("100.01")))
	assert.False(t, Within(d("100.00"), d("100.02")))
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(12550), Cents(d("125.5")))
	assert.Equal(t, int64(1), Cents(d("0.005")))
	assert.True(t, FromCents(-4500).Equal(d("-45")))
}

func TestEqualShares(t *testing.T) {
	tests := []struct {
		name  string
		total string
		n     int
		want  []string
	}{
		{"even", "120.00", 3, []string{"40.00", "40.00", "40.00"}},
		{"residue to first", "100.00", 3, []string{"33.34", "33.33", "33.33"}},
		{"two residue cents", "0.05", 3, []string{"0.02", "0.02", "0.01"}},
		{"single share", "9.99", 1, []string{"9.99"}},
		{"less than a cent each", "0.01", 2, []string{"0.01", "0.00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := EqualShares(d(tt.total), tt.n)
			require.NoError(t, err)
			require.Len(t, shares, len(tt.want))

			got := make([]string, len(shares))
			for i, s := range shares {
				got[i] = Format(s)
			}
			assert.Equal(t, tt.want, got)
			assert.True(t, Sum(shares...).Equal(Round(d(tt.total))))
		})
	}
}

func TestEqualSharesErrors(t *testing.T) {
	_, err := EqualShares(d("10"), 0)
	assert.ErrorIs(t, err, ErrNoShares)

	_, err = EqualShares(d("-10"), 2)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
