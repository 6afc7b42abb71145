package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/money"
)

const tripJSON = `{
  "name": "Lisbon",
  "members": [
    {"id": "a", "name": "Alice"},
    {"id": "b", "name": "Bob"},
    {"id": "c", "name": "Carol"}
  ],
  "expenses": [
    {"description": "Dinner", "amount": "90", "category": "food", "paidBy": "a"},
    {"description": "Taxi", "amount": 20, "category": "transportation", "paidBy": "b",
     "splitAmong": [{"memberId": "b", "amount": "5"}, {"memberId": "c", "amount": "15"}]}
  ],
  "payments": [
    {"from": "c", "to": "a", "amount": "10"}
  ]
}`

func TestSettle(t *testing.T) {
	trip, err := Load(strings.NewReader(tripJSON))
	require.NoError(t, err)

	res, err := Settle(trip)
	require.NoError(t, err)

	// Alice +90-30-10 paid back, Bob +20-30-5, Carol -30-15+10.
	want := map[string]string{"a": "50", "b": "-15", "c": "-35"}
	require.Len(t, res.Balances, 3)
	for _, b := range res.Balances {
		assert.True(t, b.NetBalance.Equal(decimal.RequireFromString(want[b.MemberID])),
			"%s: got %s", b.Name, b.NetBalance)
	}

	require.Len(t, res.Settlements, 2)
	assert.Equal(t, "c", res.Settlements[0].From)
	assert.True(t, res.Settlements[0].Amount.Equal(decimal.NewFromInt(35)))
	assert.Equal(t, "b", res.Settlements[1].From)
	assert.True(t, res.Settlements[1].Amount.Equal(decimal.NewFromInt(15)))
}

func TestSettleErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"unknown payer", `{"members":[{"id":"a"}],"expenses":[{"amount":"10","paidBy":"z"}]}`},
		{"unknown participant", `{"members":[{"id":"a"}],"expenses":[{"amount":"10","paidBy":"a","participants":["z"]}]}`},
		{"duplicate member", `{"members":[{"id":"a"},{"id":"a"}]}`},
		{"unknown payment member", `{"members":[{"id":"a"}],"payments":[{"from":"a","to":"z","amount":"1"}]}`},
		{"zero expense", `{"members":[{"id":"a"}],"expenses":[{"amount":"0","paidBy":"a"}]}`},
		{"sub-cent payment", `{"members":[{"id":"a"},{"id":"b"}],"payments":[{"from":"a","to":"b","amount":"1.001"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip, err := Load(strings.NewReader(tt.json))
			require.NoError(t, err)
			_, err = Settle(trip)
			assert.Error(t, err)
		})
	}

	t.Run("custom shares off by a cent", func(t *testing.T) {
		trip, err := Load(strings.NewReader(`{"members":[{"id":"a"},{"id":"b"}],
			"expenses":[{"amount":"10","paidBy":"a","splitAmong":[{"memberId":"a","amount":"5"},{"memberId":"b","amount":"4.99"}]}]}`))
		require.NoError(t, err)
		_, err = Settle(trip)
		assert.True(t, errors.Is(err, calculator.ErrSplitIntegrity), "got %v", err)
	})
}

func TestSettleRejectsSubCentAmounts(t *testing.T) {
	trip, err := Load(strings.NewReader(`{"members":[{"id":"a"},{"id":"b"}],"expenses":[
		{"amount":"10.005","paidBy":"a"},
		{"amount":"10.005","paidBy":"a"},
		{"amount":"10.005","paidBy":"a"}]}`))
	require.NoError(t, err)

	_, err = Settle(trip)
	require.Error(t, err)
	assert.True(t, errors.Is(err, money.ErrInvalidAmount), "got %v", err)
	assert.False(t, errors.Is(err, calculator.ErrImbalanced))
}

func TestFormat(t *testing.T) {
	usd, err := NewFormatter("USD")
	require.NoError(t, err)
	jpy, err := NewFormatter("JPY")
	require.NoError(t, err)

	tests := []struct {
		f    *Formatter
		in   string
		want string
	}{
		{usd, "35", "$ 35.00"},
		{usd, "-15.5", "$ -15.50"},
		{usd, "1234567.891", "$ 1,234,567.89"},
		{usd, "999.999", "$ 1,000.00"},
		{usd, "-0.001", "$ 0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.f.Format(decimal.RequireFromString(tt.in)), tt.in)
	}

	yen := jpy.Format(decimal.RequireFromString("1499.6"))
	assert.True(t, strings.HasSuffix(yen, " 1,500"), "yen has no minor unit: %s", yen)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(strings.NewReader(`{"members":[]}`))
	assert.Error(t, err)

	_, err = Load(strings.NewReader(`{"members":[{"id":"a"}],"extra":true}`))
	assert.Error(t, err)

	_, err = Load(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	trip, err := Load(strings.NewReader(tripJSON))
	require.NoError(t, err)
	res, err := Settle(trip)
	require.NoError(t, err)
	f, err := NewFormatter("usd")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res, f))

	out := buf.String()
	assert.Contains(t, out, "Trip: Lisbon")
	assert.Contains(t, out, "MEMBER")
	assert.Contains(t, out, "Carol")
	assert.Contains(t, out, "$")
	assert.Contains(t, out, "35.00")
}

func TestWriteSettled(t *testing.T) {
	res := &Result{Balances: []calculator.MemberBalance{{MemberID: "a", Name: "Alice"}}}
	f, err := NewFormatter("EUR")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res, f))
	assert.Contains(t, buf.String(), "Everyone is settled up.")
}

func TestNewFormatterRejectsUnknownCurrency(t *testing.T) {
	_, err := NewFormatter("XYZ")
	assert.Error(t, err)
}
