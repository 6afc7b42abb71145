package models

import "github.com/shopspring/decimal"

// Trip represents a group trip whose members share expenses.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// OwnerID is the user who created the trip.
	OwnerID string

	Name        string
	Destination string

	// StartDate and EndDate are ISO-8601 dates (YYYY-MM-DD).
	StartDate string
	EndDate   string

	// Budget is the planned total spend for the trip.
	Budget decimal.Decimal

	CoverImage  string
	Description string

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}

// Member represents one participant in a trip.
//
// A member has no balance field: balances are derived from the expense log.
type Member struct {
	// ID is unique within the whole store (UUID format).
	ID string

	TripID string

	// UserID links the member to a registered account. Empty for guests.
	UserID string

	Name   string
	Email  string
	Avatar string

	// IsOwner marks the member created for the trip owner.
	IsOwner bool

	// CreatedAt is the Unix timestamp when the member was added. Members are
	// listed in insertion order, which the settlement reducer uses for ties.
	CreatedAt int64
}
