package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/money"
)

// Settlement is a recommended transfer that reduces outstanding balances.
type Settlement struct {
	ID        string
	TripID    string
	From      string // member who owes
	FromName  string
	To        string // member who is owed
	ToName    string
	Amount    decimal.Decimal
	IsSettled bool
	SettledAt int64
}

type party struct {
	id      string
	name    string
	balance decimal.Decimal
}

// ReduceToSettlements turns member balances into a short list of transfers
// that zero them out.
//
// Algorithm (greedy largest-magnitude matching):
//   - members within tolerance of zero are ignored
//   - debtors are sorted most negative first, creditors most positive first,
//     ties keep input order
//   - the current debtor pays the current creditor min(|debt|, credit); a
//     cursor advances once its balance is within tolerance of zero
//   - amounts are rounded to cents and transfers of 0.01 or less are dropped
//
// The input slice is never modified. When balances remain unresolved beyond
// tolerance the emitted settlements are returned together with a *ResidualError.
func ReduceToSettlements(balances []MemberBalance, tripID string) ([]Settlement, error) {
	var debtors, creditors []party
	for _, b := range balances {
		if money.IsZero(b.NetBalance) {
			continue
		}
		p := party{id: b.MemberID, name: b.Name, balance: b.NetBalance}
		if b.NetBalance.IsNegative() {
			debtors = append(debtors, p)
		} else {
			creditors = append(creditors, p)
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].balance.LessThan(debtors[j].balance)
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].balance.GreaterThan(creditors[j].balance)
	})

	settlements := []Settlement{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := decimal.Min(debtor.balance.Neg(), creditor.balance)

		if rounded := money.Round(amount); rounded.GreaterThan(money.Tolerance) {
			settlements = append(settlements, Settlement{
				ID:       fmt.Sprintf("settle-%s-%s-%d", debtor.id, creditor.id, len(settlements)),
				TripID:   tripID,
				From:     debtor.id,
				FromName: debtor.name,
				To:       creditor.id,
				ToName:   creditor.name,
				Amount:   rounded,
			})
		}

		debtor.balance = debtor.balance.Add(amount)
		creditor.balance = creditor.balance.Sub(amount)

		// Both may reach zero in the same step.
		if money.IsZero(debtor.balance) {
			i++
		}
		if money.IsZero(creditor.balance) {
			j++
		}
	}

	var residual []MemberBalance
	for _, rest := range [][]party{debtors[i:], creditors[j:]} {
		for _, p := range rest {
			if !money.IsZero(p.balance) {
				residual = append(residual, MemberBalance{MemberID: p.id, Name: p.name, NetBalance: p.balance})
			}
		}
	}
	if len(residual) > 0 {
		return settlements, &ResidualError{Residual: residual}
	}
	return settlements, nil
}
