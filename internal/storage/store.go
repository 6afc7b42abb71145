// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripsplit/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInUse is returned when a record cannot be deleted because other records reference it.
	ErrInUse = errors.New("still referenced")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("already exists")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser persists a new user. user.ID is populated by the store.
	// Returns ErrConflict if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	// DeleteUser removes the user and every trip they own.
	DeleteUser(ctx context.Context, id string) error
}

// TripStore persists trips and their members.
type TripStore interface {
	// CreateTrip persists a trip together with its owner member in one transaction.
	// IDs and timestamps of both are populated by the store.
	CreateTrip(ctx context.Context, trip *models.Trip, owner *models.Member) error
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
	// ListTripsForUser returns trips the user owns or is a linked member of,
	// newest first.
	ListTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error)
	UpdateTrip(ctx context.Context, trip *models.Trip) error
	// DeleteTrip removes a trip with all of its members, expenses and payments.
	DeleteTrip(ctx context.Context, tripID string) error

	AddMember(ctx context.Context, member *models.Member) error
	GetMember(ctx context.Context, memberID string) (*models.Member, error)
	// ListMembers returns the members of a trip in insertion order.
	ListMembers(ctx context.Context, tripID string) ([]*models.Member, error)
	UpdateMember(ctx context.Context, member *models.Member) error
	// DeleteMember returns ErrInUse while any expense or payment references the member.
	DeleteMember(ctx context.Context, memberID string) error
}

// ExpenseStore persists expenses with their splits.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	// ListExpenses returns a trip's expenses ordered by date, then creation.
	ListExpenses(ctx context.Context, tripID string) ([]*models.Expense, error)
	// UpdateExpense replaces the expense fields and its full split set.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
}

// PaymentStore persists recorded settlement payments.
type PaymentStore interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
	// ListPayments returns a trip's payments, oldest first.
	ListPayments(ctx context.Context, tripID string) ([]*models.Payment, error)
	DeletePayment(ctx context.Context, paymentID string) error
}

// Store defines the interface for all storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	UserStore
	TripStore
	ExpenseStore
	PaymentStore

	// Close releases any resources held by the store.
	Close() error
}
