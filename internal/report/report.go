// Package report settles a trip described in a JSON file without a server.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/money"
)

// Trip is the file format read by Load.
type Trip struct {
	Name     string    `json:"name"`
	Members  []Member  `json:"members"`
	Expenses []Expense `json:"expenses"`
	Payments []Payment `json:"payments"`
}

type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Expense is split equally among Participants (all members when empty)
// unless SplitAmong lists exact shares.
type Expense struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Category     string          `json:"category"`
	PaidBy       string          `json:"paidBy"`
	Participants []string        `json:"participants,omitempty"`
	SplitAmong   []Share         `json:"splitAmong,omitempty"`
}

type Share struct {
	MemberID string          `json:"memberId"`
	Amount   decimal.Decimal `json:"amount"`
}

type Payment struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// Result is the settled state of a trip.
type Result struct {
	Name        string
	Balances    []calculator.MemberBalance
	Settlements []calculator.Settlement
}

// Load decodes a trip file. Unknown fields are rejected.
func Load(r io.Reader) (*Trip, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var trip Trip
	if err := dec.Decode(&trip); err != nil {
		return nil, fmt.Errorf("decode trip: %w", err)
	}
	if len(trip.Members) == 0 {
		return nil, fmt.Errorf("trip has no members")
	}
	return &trip, nil
}

// Settle computes balances and the settlements that clear them.
func Settle(trip *Trip) (*Result, error) {
	members := make([]calculator.Member, len(trip.Members))
	known := make(map[string]bool, len(trip.Members))
	all := make([]string, len(trip.Members))
	for i, m := range trip.Members {
		if m.ID == "" || known[m.ID] {
			return nil, fmt.Errorf("member %d: missing or duplicate id %q", i, m.ID)
		}
		known[m.ID] = true
		members[i] = calculator.Member{ID: m.ID, Name: m.Name}
		all[i] = m.ID
	}

	expenses := make([]calculator.Expense, len(trip.Expenses))
	for i, e := range trip.Expenses {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("expense-%d", i+1)
		}
		if !known[e.PaidBy] {
			return nil, fmt.Errorf("expense %s: unknown payer %q", id, e.PaidBy)
		}
		if err := checkAmount(e.Amount); err != nil {
			return nil, fmt.Errorf("expense %s: %w", id, err)
		}

		method := calculator.MethodEqual
		participants := e.Participants
		if len(participants) == 0 {
			participants = all
		}
		custom := make([]calculator.Share, len(e.SplitAmong))
		for j, s := range e.SplitAmong {
			custom[j] = calculator.Share{MemberID: s.MemberID, Amount: s.Amount}
		}
		if len(custom) > 0 {
			method = calculator.MethodCustom
			participants = nil
			for _, s := range custom {
				participants = append(participants, s.MemberID)
			}
		}
		for _, p := range participants {
			if !known[p] {
				return nil, fmt.Errorf("expense %s: unknown participant %q", id, p)
			}
		}

		shares, err := calculator.BuildSplits(method, e.Amount, participants, custom)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", id, err)
		}
		expenses[i] = calculator.Expense{
			ID:       id,
			Amount:   e.Amount,
			Category: e.Category,
			PaidBy:   e.PaidBy,
			Splits:   shares,
		}
	}

	payments := make([]calculator.Payment, len(trip.Payments))
	for i, p := range trip.Payments {
		if !known[p.From] || !known[p.To] {
			return nil, fmt.Errorf("payment %d: unknown member", i+1)
		}
		if err := checkAmount(p.Amount); err != nil {
			return nil, fmt.Errorf("payment %d: %w", i+1, err)
		}
		payments[i] = calculator.Payment{From: p.From, To: p.To, Amount: p.Amount}
	}

	balances, err := calculator.ComputeMemberBalances(members, expenses, payments)
	if err != nil {
		return nil, err
	}
	if err := calculator.CheckBalanced(balances); err != nil {
		return nil, err
	}
	settlements, err := calculator.ReduceToSettlements(balances, trip.Name)
	if err != nil {
		return nil, err
	}
	return &Result{Name: trip.Name, Balances: balances, Settlements: settlements}, nil
}

// checkAmount accepts positive amounts in whole cents, the same amounts the
// API accepts.
func checkAmount(d decimal.Decimal) error {
	if !d.IsPositive() || !d.Equal(money.Round(d)) {
		return fmt.Errorf("%w: %s must be positive with at most %d decimal places", money.ErrInvalidAmount, d, money.Places)
	}
	return nil
}

// Formatter renders amounts in one currency.
type Formatter struct {
	symbol string
	scale  int32
}

// NewFormatter returns a formatter for an ISO 4217 currency code.
func NewFormatter(code string) (*Formatter, error) {
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return &Formatter{
		symbol: message.NewPrinter(language.English).Sprint(currency.Symbol(unit)),
		scale:  int32(scale),
	}, nil
}

// Format renders an amount with the currency symbol and digit grouping. The
// amount is rounded to the currency's minor unit without leaving decimal.
func (f *Formatter) Format(d decimal.Decimal) string {
	digits := d.Abs().StringFixed(f.scale)
	whole, frac, hasFrac := strings.Cut(digits, ".")

	var b strings.Builder
	b.WriteString(f.symbol)
	b.WriteByte(' ')
	if d.Round(f.scale).IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// Write prints the balances and settlements as aligned tables.
func Write(w io.Writer, res *Result, f *Formatter) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if res.Name != "" {
		fmt.Fprintf(tw, "Trip: %s\n\n", res.Name)
	}
	fmt.Fprintln(tw, "MEMBER\tPAID\tOWES\tBALANCE")
	for _, b := range res.Balances {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Name, f.Format(b.TotalPaid), f.Format(b.TotalOwed), f.Format(b.NetBalance))
	}

	fmt.Fprintln(tw)
	if len(res.Settlements) == 0 {
		fmt.Fprintln(tw, "Everyone is settled up.")
		return tw.Flush()
	}
	fmt.Fprintln(tw, "FROM\tTO\tAMOUNT")
	for _, s := range res.Settlements {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.FromName, s.ToName, f.Format(s.Amount))
	}
	return tw.Flush()
}
