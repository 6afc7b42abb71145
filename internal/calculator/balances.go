package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/money"
)

// Share is the amount one member owes for an expense.
type Share struct {
	MemberID string
	Amount   decimal.Decimal
}

// Expense is an expense with the minimal information needed for balance calculations.
type Expense struct {
	ID       string
	Amount   decimal.Decimal
	Category string
	PaidBy   string
	Splits   []Share
}

// Payment is a recorded settlement between two members.
type Payment struct {
	From   string // debtor who paid
	To     string // creditor who received
	Amount decimal.Decimal
}

// Member identifies a trip member for ordering and display.
type Member struct {
	ID   string
	Name string
}

// MemberBalance represents the balance information for one trip member.
type MemberBalance struct {
	MemberID   string
	Name       string
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid  decimal.Decimal
	TotalOwed  decimal.Decimal
}

type totals struct {
	paid decimal.Decimal
	owed decimal.Decimal
}

// ComputeBalances derives each member's net balance from a list of expenses.
//
// For every expense: balance[m] += paid_by(m) - owed_by(m). A payer who also
// participates in the split is credited the full amount and debited their share,
// so nothing is counted twice. Members that never appear are absent from the map.
//
// Expenses whose splits are empty, negative, duplicated or do not sum to the
// amount within money.Tolerance are rejected with a *SplitIntegrityError.
func ComputeBalances(expenses []Expense) (map[string]decimal.Decimal, error) {
	acc, err := accumulate(expenses, nil)
	if err != nil {
		return nil, err
	}
	balances := make(map[string]decimal.Decimal, len(acc))
	for id, t := range acc {
		balances[id] = t.paid.Sub(t.owed)
	}
	return balances, nil
}

// ApplyPayments returns a copy of balances with recorded payments applied.
// The payer's balance rises and the receiver's balance falls by the amount.
func ApplyPayments(balances map[string]decimal.Decimal, payments []Payment) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(balances))
	for id, b := range balances {
		out[id] = b
	}
	for _, p := range payments {
		out[p.From] = out[p.From].Add(p.Amount)
		out[p.To] = out[p.To].Sub(p.Amount)
	}
	return out
}

// ComputeMemberBalances computes the full balance view of a trip: expenses and
// recorded payments aggregated per member, ordered by OrderBalances rules.
func ComputeMemberBalances(members []Member, expenses []Expense, payments []Payment) ([]MemberBalance, error) {
	acc, err := accumulate(expenses, payments)
	if err != nil {
		return nil, err
	}

	net := make(map[string]decimal.Decimal, len(acc))
	for id, t := range acc {
		net[id] = t.paid.Sub(t.owed)
	}

	ordered := OrderBalances(members, net)
	for i := range ordered {
		if t, ok := acc[ordered[i].MemberID]; ok {
			ordered[i].TotalPaid = t.paid
			ordered[i].TotalOwed = t.owed
		}
	}
	return ordered, nil
}

// OrderBalances turns a balance map into a deterministic slice. Known members
// come first in the given order (members without activity get a zero balance);
// IDs only present in balances follow, sorted by ID.
func OrderBalances(members []Member, balances map[string]decimal.Decimal) []MemberBalance {
	out := make([]MemberBalance, 0, len(members)+len(balances))
	seen := make(map[string]bool, len(members))

	for _, m := range members {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, MemberBalance{
			MemberID:   m.ID,
			Name:       m.Name,
			NetBalance: balances[m.ID],
		})
	}

	var extra []string
	for id := range balances {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		out = append(out, MemberBalance{MemberID: id, Name: id, NetBalance: balances[id]})
	}
	return out
}

// CheckBalanced verifies that balances sum to zero within money.Tolerance.
func CheckBalanced(balances []MemberBalance) error {
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b.NetBalance)
	}
	if !money.Within(sum, decimal.Zero) {
		return fmt.Errorf("%w: sum is %s", ErrImbalanced, sum.String())
	}
	return nil
}

func accumulate(expenses []Expense, payments []Payment) (map[string]*totals, error) {
	acc := make(map[string]*totals)
	get := func(id string) *totals {
		t, ok := acc[id]
		if !ok {
			t = &totals{}
			acc[id] = t
		}
		return t
	}

	for _, e := range expenses {
		if err := validateExpense(e); err != nil {
			return nil, err
		}

		payer := get(e.PaidBy)
		payer.paid = payer.paid.Add(e.Amount)

		for _, s := range e.Splits {
			t := get(s.MemberID)
			t.owed = t.owed.Add(s.Amount)
		}
	}

	// A payment moves the payer towards zero the same way paying an expense does.
	for _, p := range payments {
		from := get(p.From)
		from.paid = from.paid.Add(p.Amount)
		to := get(p.To)
		to.owed = to.owed.Add(p.Amount)
	}

	return acc, nil
}

func validateExpense(e Expense) error {
	if e.PaidBy == "" {
		return splitError(e.ID, "missing payer")
	}
	if !e.Amount.IsPositive() {
		return splitError(e.ID, "amount %s must be positive", e.Amount)
	}
	if len(e.Splits) == 0 {
		return splitError(e.ID, "no participants")
	}

	seen := make(map[string]bool, len(e.Splits))
	sum := decimal.Zero
	for _, s := range e.Splits {
		if s.MemberID == "" {
			return splitError(e.ID, "split without member")
		}
		if seen[s.MemberID] {
			return splitError(e.ID, "member %s appears more than once", s.MemberID)
		}
		seen[s.MemberID] = true
		if s.Amount.IsNegative() {
			return splitError(e.ID, "negative share %s for member %s", s.Amount, s.MemberID)
		}
		sum = sum.Add(s.Amount)
	}

	if !money.Within(sum, e.Amount) {
		return splitError(e.ID, "splits sum to %s, amount is %s", money.Format(sum), money.Format(e.Amount))
	}
	return nil
}
