package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/money"
)

// nearBudgetPercent is the usage at which a trip is flagged as close to its budget.
var nearBudgetPercent = decimal.NewFromInt(80)

// CategorySpend is the total spent in one expense category.
type CategorySpend struct {
	Category string
	Amount   decimal.Decimal
}

// BudgetSummary compares a trip's spending with its budget.
type BudgetSummary struct {
	Budget      decimal.Decimal
	Spent       decimal.Decimal
	Remaining   decimal.Decimal // negative when over budget
	PercentUsed decimal.Decimal // 0-100, capped at 100
	OverBudget  bool
	NearBudget  bool // at least 80% used but not over
	ByCategory  []CategorySpend
}

// SummarizeBudget totals expenses against budget. Categories are ordered by
// amount spent, largest first, then by name.
func SummarizeBudget(budget decimal.Decimal, expenses []Expense) BudgetSummary {
	spent := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		spent = spent.Add(e.Amount)
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
	}

	hundred := decimal.NewFromInt(100)
	percent := decimal.Zero
	switch {
	case budget.IsPositive():
		percent = spent.Div(budget).Mul(hundred)
	case spent.IsPositive():
		percent = hundred
	}
	if percent.GreaterThan(hundred) {
		percent = hundred
	}

	over := spent.GreaterThan(budget)
	summary := BudgetSummary{
		Budget:      budget,
		Spent:       spent,
		Remaining:   budget.Sub(spent),
		PercentUsed: money.Round(percent),
		OverBudget:  over,
		NearBudget:  !over && percent.GreaterThanOrEqual(nearBudgetPercent),
	}

	for c, amount := range byCategory {
		summary.ByCategory = append(summary.ByCategory, CategorySpend{Category: c, Amount: amount})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		a, b := summary.ByCategory[i], summary.ByCategory[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Category < b.Category
	})
	return summary
}
