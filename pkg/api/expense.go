package api

// SplitShare is one member's share of an expense.
type SplitShare struct {
	MemberID string `json:"memberId" validate:"required"`
	Amount   string `json:"amount" validate:"required,money"`
}

// Expense is a shared cost paid by one member.
type Expense struct {
	ID          string        `json:"id"`
	TripID      string        `json:"tripId"`
	Description string        `json:"description"`
	Amount      string        `json:"amount"`
	Category    string        `json:"category"`
	PaidBy      string        `json:"paidBy"`
	SplitAmong  []*SplitShare `json:"splitAmong"`
	Date        string        `json:"date"`
	SplitMethod string        `json:"splitMethod"`
	CreatedAt   int64         `json:"createdAt"`
}

// ExpenseInput holds the fields shared by create and update requests.
//
// With splitMethod "equal" the amount is divided among Participants (every
// trip member when empty). With "custom" SplitAmong lists the exact shares,
// which must add up to the amount to the cent.
type ExpenseInput struct {
	Description  string        `json:"description" validate:"required,max=200"`
	Amount       string        `json:"amount" validate:"required,money"`
	Category     string        `json:"category" validate:"required,oneof=food transportation accommodation activities shopping other"`
	PaidBy       string        `json:"paidBy" validate:"required"`
	Date         string        `json:"date" validate:"required,isodate"`
	SplitMethod  string        `json:"splitMethod,omitempty" validate:"omitempty,oneof=equal custom"`
	Participants []string      `json:"participants,omitempty" validate:"dive,required"`
	SplitAmong   []*SplitShare `json:"splitAmong,omitempty" validate:"required_if=SplitMethod custom,dive"`
}

type CreateExpenseRequest struct {
	TripID string `json:"tripId" validate:"required"`
	ExpenseInput
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expenseId" validate:"required"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	TripID string `json:"tripId" validate:"required"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type UpdateExpenseRequest struct {
	ExpenseID string `json:"expenseId" validate:"required"`
	ExpenseInput
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId" validate:"required"`
}

type DeleteExpenseResponse struct{}
