package service

import (
	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/money"
	"github.com/mmynk/tripsplit/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

func toAPITrip(t *models.Trip, members []*models.Member) *api.Trip {
	out := &api.Trip{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Name:        t.Name,
		Destination: t.Destination,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Budget:      money.Format(t.Budget),
		CoverImage:  t.CoverImage,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
	for _, m := range members {
		out.Members = append(out.Members, toAPIMember(m))
	}
	return out
}

func toAPIMember(m *models.Member) *api.Member {
	return &api.Member{
		ID:      m.ID,
		TripID:  m.TripID,
		UserID:  m.UserID,
		Name:    m.Name,
		Email:   m.Email,
		Avatar:  m.Avatar,
		IsOwner: m.IsOwner,
	}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	splits := make([]*api.SplitShare, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = &api.SplitShare{MemberID: s.MemberID, Amount: money.Format(s.Amount)}
	}
	return &api.Expense{
		ID:          e.ID,
		TripID:      e.TripID,
		Description: e.Description,
		Amount:      money.Format(e.Amount),
		Category:    string(e.Category),
		PaidBy:      e.PaidBy,
		SplitAmong:  splits,
		Date:        e.Date,
		SplitMethod: string(e.SplitMethod),
		CreatedAt:   e.CreatedAt,
	}
}

func toAPIBalance(b calculator.MemberBalance) *api.Balance {
	return &api.Balance{
		MemberID:   b.MemberID,
		Name:       b.Name,
		NetBalance: money.Format(b.NetBalance),
		TotalPaid:  money.Format(b.TotalPaid),
		TotalOwed:  money.Format(b.TotalOwed),
	}
}

func toAPISuggestion(s calculator.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:         s.ID,
		TripID:     s.TripID,
		FromMember: s.From,
		FromName:   s.FromName,
		ToMember:   s.To,
		ToName:     s.ToName,
		Amount:     money.Format(s.Amount),
		IsSettled:  s.IsSettled,
		SettledAt:  s.SettledAt,
	}
}

// toAPIPayment renders a recorded payment as a settled settlement. names maps
// member IDs to display names.
func toAPIPayment(p *models.Payment, names map[string]string) *api.Settlement {
	return &api.Settlement{
		ID:         p.ID,
		TripID:     p.TripID,
		FromMember: p.FromMember,
		FromName:   names[p.FromMember],
		ToMember:   p.ToMember,
		ToName:     names[p.ToMember],
		Amount:     money.Format(p.Amount),
		IsSettled:  true,
		SettledAt:  p.SettledAt,
	}
}

func toAPISummary(s calculator.BudgetSummary) *api.BudgetSummary {
	out := &api.BudgetSummary{
		Budget:      money.Format(s.Budget),
		Spent:       money.Format(s.Spent),
		Remaining:   money.Format(s.Remaining),
		PercentUsed: money.Format(s.PercentUsed),
		OverBudget:  s.OverBudget,
		NearBudget:  s.NearBudget,
		ByCategory:  make([]*api.CategorySpend, len(s.ByCategory)),
	}
	for i, c := range s.ByCategory {
		out.ByCategory[i] = &api.CategorySpend{Category: c.Category, Amount: money.Format(c.Amount)}
	}
	return out
}
