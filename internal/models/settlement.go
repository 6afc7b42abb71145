package models

import "github.com/shopspring/decimal"

// Payment is a settlement that members marked as paid. Recorded payments are
// ledger entries: they shift balances the next time balances are computed.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	TripID string

	// FromMember is the debtor who paid.
	FromMember string

	// ToMember is the creditor who received the money.
	ToMember string

	Amount decimal.Decimal

	// SettledAt is the Unix timestamp when the payment was recorded.
	SettledAt int64

	// CreatedBy is the user ID who recorded the payment.
	CreatedBy string
}
