package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/money"
	"github.com/mmynk/tripsplit/internal/notify"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

// Ensure SettlementService implements the Connect handler interface
var _ apiconnect.SettlementServiceHandler = (*SettlementService)(nil)

// SettlementService exposes derived balances, suggested transfers and
// recorded payments.
type SettlementService struct {
	store    storage.Store
	ledger   *ledger.Ledger
	notifier notify.Notifier
	validate *validator.Validate
}

func NewSettlementService(store storage.Store, l *ledger.Ledger, notifier notify.Notifier) *SettlementService {
	return &SettlementService{
		store:    store,
		ledger:   l,
		notifier: notifier,
		validate: newValidator(),
	}
}

// view loads the trip's derived state after checking access.
func (s *SettlementService) view(ctx context.Context, tripID string) (*tripAccess, *ledger.View, error) {
	access, err := loadTrip(ctx, s.store, tripID)
	if err != nil {
		return nil, nil, err
	}
	view, err := s.ledger.View(ctx, access.trip.ID)
	if err != nil {
		slog.Error("Failed to derive trip balances", "trip_id", access.trip.ID, "error", err)
		return nil, nil, ledgerError(err)
	}
	return access, view, nil
}

// GetBalances returns every member's net balance in member order.
func (s *SettlementService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	slog.Info("GetBalances request received", "trip_id", req.Msg.TripID)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	_, view, err := s.view(ctx, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	balances := make([]*api.Balance, len(view.Balances))
	for i, b := range view.Balances {
		balances[i] = toAPIBalance(b)
	}
	return connect.NewResponse(&api.GetBalancesResponse{Balances: balances}), nil
}

// ListSettlements returns the transfers that would settle the trip and the
// payments already recorded. Balances that cannot be reduced to zero are
// reported as data loss rather than silently dropped.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received", "trip_id", req.Msg.TripID)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	access, view, err := s.view(ctx, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	if err := view.Err(); err != nil {
		slog.Error("Trip balances are inconsistent", "trip_id", access.trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.ListSettlementsResponse{
		Suggested: make([]*api.Settlement, len(view.Settlements)),
		Recorded:  make([]*api.Settlement, len(view.Payments)),
	}
	for i, st := range view.Settlements {
		resp.Suggested[i] = toAPISuggestion(st)
	}
	names := access.memberNames()
	for i, p := range view.Payments {
		resp.Recorded[i] = toAPIPayment(p, names)
	}

	slog.Info("ListSettlements successful",
		"trip_id", access.trip.ID,
		"suggested", len(resp.Suggested),
		"recorded", len(resp.Recorded),
	)
	return connect.NewResponse(resp), nil
}

// MarkSettled records a payment from one member to another.
func (s *SettlementService) MarkSettled(ctx context.Context, req *connect.Request[api.MarkSettledRequest]) (*connect.Response[api.MarkSettledResponse], error) {
	slog.Info("MarkSettled request received",
		"trip_id", req.Msg.TripID,
		"from", req.Msg.FromMember,
		"to", req.Msg.ToMember,
		"amount", req.Msg.Amount,
	)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	amount, err := money.Parse(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}
	access, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	from, to := access.member(req.Msg.FromMember), access.member(req.Msg.ToMember)
	if from == nil || to == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("both members must belong to trip %s", access.trip.ID))
	}

	payment, err := s.ledger.MarkSettled(ctx, access.trip.ID, from.ID, to.ID, amount, access.userID)
	if err != nil {
		slog.Warn("MarkSettled failed", "trip_id", access.trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.notifier.Notify(ctx, notify.NewEvent(notify.KindSettlement, access.trip.ID, access.userID, payment.ID,
		fmt.Sprintf("%s paid %s %s", from.Name, to.Name, money.Format(payment.Amount))))

	slog.Info("Settlement recorded", "payment_id", payment.ID)
	return connect.NewResponse(&api.MarkSettledResponse{
		Settlement: toAPIPayment(payment, access.memberNames()),
	}), nil
}

// UndoSettlement deletes a recorded payment, restoring the balances it moved.
func (s *SettlementService) UndoSettlement(ctx context.Context, req *connect.Request[api.UndoSettlementRequest]) (*connect.Response[api.UndoSettlementResponse], error) {
	slog.Info("UndoSettlement request received", "trip_id", req.Msg.TripID, "settlement_id", req.Msg.SettlementID)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	access, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.UndoPayment(ctx, access.trip.ID, req.Msg.SettlementID); err != nil {
		slog.Warn("UndoSettlement failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Settlement undone", "settlement_id", req.Msg.SettlementID)
	return connect.NewResponse(&api.UndoSettlementResponse{}), nil
}
