package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category classifies an expense.
type Category string

const (
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryAccommodation  Category = "accommodation"
	CategoryActivities     Category = "activities"
	CategoryShopping       Category = "shopping"
	CategoryOther          Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryAccommodation,
	CategoryActivities,
	CategoryShopping,
	CategoryOther,
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// SplitMethod describes how an expense amount is divided.
type SplitMethod string

const (
	// SplitEqual divides the amount equally among participants.
	SplitEqual SplitMethod = "equal"
	// SplitCustom uses explicit per-member amounts.
	SplitCustom SplitMethod = "custom"
)

// ParseSplitMethod validates a split method name. Empty means equal.
func ParseSplitMethod(s string) (SplitMethod, error) {
	switch SplitMethod(s) {
	case "", SplitEqual:
		return SplitEqual, nil
	case SplitCustom:
		return SplitCustom, nil
	}
	return "", fmt.Errorf("unknown split method %q", s)
}

// Expense is a single shared cost.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	TripID      string
	Description string

	// Amount is the positive total paid.
	Amount decimal.Decimal

	Category Category

	// PaidBy is the member ID of the payer.
	PaidBy string

	// Splits are the shares owed by each participant. They sum to Amount.
	Splits []Split

	// Date is the ISO-8601 date the expense occurred.
	Date string

	SplitMethod SplitMethod

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Split is the share of one expense owed by one member.
type Split struct {
	ExpenseID string
	MemberID  string
	Amount    decimal.Decimal
}
