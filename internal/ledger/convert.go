package ledger

import (
	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
)

func toCalcMembers(members []*models.Member) []calculator.Member {
	out := make([]calculator.Member, len(members))
	for i, m := range members {
		out[i] = calculator.Member{ID: m.ID, Name: m.Name}
	}
	return out
}

func toCalcExpenses(expenses []*models.Expense) []calculator.Expense {
	out := make([]calculator.Expense, len(expenses))
	for i, e := range expenses {
		shares := make([]calculator.Share, len(e.Splits))
		for j, s := range e.Splits {
			shares[j] = calculator.Share{MemberID: s.MemberID, Amount: s.Amount}
		}
		out[i] = calculator.Expense{
			ID:       e.ID,
			Amount:   e.Amount,
			Category: string(e.Category),
			PaidBy:   e.PaidBy,
			Splits:   shares,
		}
	}
	return out
}

func toCalcPayments(payments []*models.Payment) []calculator.Payment {
	out := make([]calculator.Payment, len(payments))
	for i, p := range payments {
		out[i] = calculator.Payment{From: p.FromMember, To: p.ToMember, Amount: p.Amount}
	}
	return out
}
