package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/money"
	"github.com/mmynk/tripsplit/internal/notify"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

// Ensure ExpenseService implements the Connect handler interface
var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	store    storage.Store
	ledger   *ledger.Ledger
	notifier notify.Notifier
	validate *validator.Validate
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, l *ledger.Ledger, notifier notify.Notifier) *ExpenseService {
	return &ExpenseService{
		store:    store,
		ledger:   l,
		notifier: notifier,
		validate: newValidator(),
	}
}

// buildExpense turns an expense input into a model with computed splits.
// Every member it references must belong to the trip.
func buildExpense(access *tripAccess, in *api.ExpenseInput) (*models.Expense, error) {
	amount, err := money.Parse(in.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	method, err := models.ParseSplitMethod(in.SplitMethod)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if access.member(in.PaidBy) == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("payer %s is not a member of this trip", in.PaidBy))
	}

	participants := in.Participants
	if len(participants) == 0 {
		participants = access.memberIDs()
	}
	for _, id := range participants {
		if access.member(id) == nil {
			return nil, connect.NewError(connect.CodeInvalidArgument,
				fmt.Errorf("participant %s is not a member of this trip", id))
		}
	}

	custom := make([]calculator.Share, len(in.SplitAmong))
	for i, s := range in.SplitAmong {
		if access.member(s.MemberID) == nil {
			return nil, connect.NewError(connect.CodeInvalidArgument,
				fmt.Errorf("split member %s is not a member of this trip", s.MemberID))
		}
		share, err := money.Parse(s.Amount)
		if err != nil {
			return nil, toConnectError(err)
		}
		custom[i] = calculator.Share{MemberID: s.MemberID, Amount: share}
	}

	shares, err := calculator.BuildSplits(string(method), amount, participants, custom)
	if err != nil {
		return nil, toConnectError(err)
	}

	expense := &models.Expense{
		TripID:      access.trip.ID,
		Description: in.Description,
		Amount:      money.Round(amount),
		Category:    category,
		PaidBy:      in.PaidBy,
		Date:        in.Date,
		SplitMethod: method,
		Splits:      make([]models.Split, len(shares)),
	}
	for i, s := range shares {
		expense.Splits[i] = models.Split{MemberID: s.MemberID, Amount: s.Amount}
	}
	return expense, nil
}

// CreateExpense records an expense paid by one member and split among others.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"trip_id", req.Msg.TripID,
		"amount", req.Msg.Amount,
		"split_method", req.Msg.SplitMethod,
	)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	access, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	expense, err := buildExpense(access, &req.Msg.ExpenseInput)
	if err != nil {
		slog.Warn("CreateExpense rejected", "trip_id", access.trip.ID, "error", err)
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "trip_id", access.trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.ledger.Invalidate(ctx, access.trip.ID)
	s.notifier.Notify(ctx, notify.NewEvent(notify.KindExpenseAdded, access.trip.ID, access.userID, expense.ID,
		fmt.Sprintf("%s paid %s for %s", access.memberNames()[expense.PaidBy], money.Format(expense.Amount), expense.Description)))

	slog.Info("Expense created", "expense_id", expense.ID, "splits", len(expense.Splits))
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// loadExpense loads an expense and checks access to its trip.
func (s *ExpenseService) loadExpense(ctx context.Context, expenseID string) (*models.Expense, *tripAccess, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, toConnectError(err)
	}
	access, err := loadTrip(ctx, s.store, expense.TripID)
	if err != nil {
		return nil, nil, err
	}
	return expense, access, nil
}

// GetExpense returns a single expense with its splits.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "expense_id", req.Msg.ExpenseID)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	expense, _, err := s.loadExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses returns a trip's expenses ordered by date.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "trip_id", req.Msg.TripID)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	access, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, access.trip.ID)
	if err != nil {
		slog.Error("ListExpenses failed", "trip_id", access.trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}

	slog.Info("ListExpenses successful", "trip_id", access.trip.ID, "count", len(out))
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// UpdateExpense replaces an expense and recomputes its splits.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	existing, access, err := s.loadExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}
	expense, err := buildExpense(access, &req.Msg.ExpenseInput)
	if err != nil {
		slog.Warn("UpdateExpense rejected", "expense_id", existing.ID, "error", err)
		return nil, err
	}
	expense.ID = existing.ID
	expense.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.ledger.Invalidate(ctx, access.trip.ID)
	s.notifier.Notify(ctx, notify.NewEvent(notify.KindExpenseUpdated, access.trip.ID, access.userID, expense.ID,
		fmt.Sprintf("Expense %q was updated", expense.Description)))

	slog.Info("Expense updated", "expense_id", expense.ID)
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// DeleteExpense removes an expense from its trip.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	expense, access, err := s.loadExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.ledger.Invalidate(ctx, access.trip.ID)
	s.notifier.Notify(ctx, notify.NewEvent(notify.KindExpenseDeleted, access.trip.ID, access.userID, expense.ID,
		fmt.Sprintf("Expense %q was deleted", expense.Description)))

	slog.Info("Expense deleted", "expense_id", expense.ID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}
