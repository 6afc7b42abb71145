package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/money"
	"github.com/mmynk/tripsplit/internal/notify"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

// Ensure TripService implements the Connect handler interface
var _ apiconnect.TripServiceHandler = (*TripService)(nil)

// TripService implements the Connect TripService
type TripService struct {
	store    storage.Store
	ledger   *ledger.Ledger
	notifier notify.Notifier
	validate *validator.Validate
}

// NewTripService creates a new TripService with the given storage backend.
func NewTripService(store storage.Store, l *ledger.Ledger, notifier notify.Notifier) *TripService {
	return &TripService{
		store:    store,
		ledger:   l,
		notifier: notifier,
		validate: newValidator(),
	}
}

// parseBudget reads an optional budget. Empty means no budget.
func parseBudget(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return money.Parse(s)
}

// CreateTrip creates a trip. The caller becomes its owner member.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateTrip request received", "user_id", userID, "name", req.Msg.Name)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	if err := checkDateRange(req.Msg.StartDate, req.Msg.EndDate); err != nil {
		return nil, err
	}
	budget, err := parseBudget(req.Msg.Budget)
	if err != nil {
		return nil, toConnectError(err)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		slog.Error("CreateTrip failed - could not load owner", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	ownerName := req.Msg.OwnerName
	if ownerName == "" {
		ownerName = user.Username
	}

	trip := &models.Trip{
		OwnerID:     userID,
		Name:        req.Msg.Name,
		Destination: req.Msg.Destination,
		StartDate:   req.Msg.StartDate,
		EndDate:     req.Msg.EndDate,
		Budget:      budget,
		CoverImage:  req.Msg.CoverImage,
		Description: req.Msg.Description,
	}
	owner := &models.Member{
		UserID: userID,
		Name:   ownerName,
		Email:  user.Email,
		Avatar: user.Avatar,
	}
	if err := s.store.CreateTrip(ctx, trip, owner); err != nil {
		slog.Error("CreateTrip failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Trip created", "trip_id", trip.ID, "owner_member_id", owner.ID)
	return connect.NewResponse(&api.CreateTripResponse{
		Trip: toAPITrip(trip, []*models.Member{owner}),
	}), nil
}

// GetTrip returns a trip with its members and their current balances.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	slog.Info("GetTrip request received", "trip_id", req.Msg.TripID)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	access, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	view, err := s.ledger.View(ctx, access.trip.ID)
	if err != nil {
		slog.Error("GetTrip failed - could not derive balances", "trip_id", access.trip.ID, "error", err)
		return nil, ledgerError(err)
	}
	balances := make(map[string]string, len(view.Balances))
	for _, b := range view.Balances {
		balances[b.MemberID] = money.Format(b.NetBalance)
	}

	trip := toAPITrip(access.trip, access.members)
	for _, m := range trip.Members {
		m.Balance = balances[m.ID]
	}

	slog.Info("GetTrip successful", "trip_id", trip.ID, "members_count", len(trip.Members))
	return connect.NewResponse(&api.GetTripResponse{Trip: trip}), nil
}

// ListTrips returns the trips the caller owns or belongs to.
func (s *TripService) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListTrips request received", "user_id", userID)

	trips, err := s.store.ListTripsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListTrips failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Trip, len(trips))
	for i, t := range trips {
		out[i] = toAPITrip(t, nil)
	}

	slog.Info("ListTrips successful", "count", len(out))
	return connect.NewResponse(&api.ListTripsResponse{Trips: out}), nil
}

// UpdateTrip replaces the trip's editable fields. Owner only.
func (s *TripService) UpdateTrip(ctx context.Context, req *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error) {
	slog.Info("UpdateTrip request received", "trip_id", req.Msg.TripID, "name", req.Msg.Name)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	if err := checkDateRange(req.Msg.StartDate, req.Msg.EndDate); err != nil {
		return nil, err
	}
	budget, err := parseBudget(req.Msg.Budget)
	if err != nil {
		return nil, toConnectError(err)
	}

	access, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	if err := access.requireOwner(); err != nil {
		return nil, err
	}

	trip := access.trip
	trip.Name = req.Msg.Name
	trip.Destination = req.Msg.Destination
	trip.StartDate = req.Msg.StartDate
	trip.EndDate = req.Msg.EndDate
	trip.Budget = budget
	trip.CoverImage = req.Msg.CoverImage
	trip.Description = req.Msg.Description

	if err := s.store.UpdateTrip(ctx, trip); err != nil {
		slog.Error("UpdateTrip failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.notifier.Notify(ctx, notify.NewEvent(notify.KindTripUpdate, trip.ID, access.userID, trip.ID,
		fmt.Sprintf("Trip %q was updated", trip.Name)))

	slog.Info("Trip updated", "trip_id", trip.ID)
	return connect.NewResponse(&api.UpdateTripResponse{
		Trip: toAPITrip(trip, access.members),
	}), nil
}

// DeleteTrip removes a trip with everything recorded in it. Owner only.
func (s *TripService) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	slog.Info("DeleteTrip request received", "trip_id", req.Msg.TripID)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	access, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	if err := access.requireOwner(); err != nil {
		return nil, err
	}

	if err := s.store.DeleteTrip(ctx, access.trip.ID); err != nil {
		slog.Error("DeleteTrip failed", "trip_id", access.trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.ledger.Invalidate(ctx, access.trip.ID)

	slog.Info("Trip deleted", "trip_id", access.trip.ID)
	return connect.NewResponse(&api.DeleteTripResponse{}), nil
}

// AddMember adds a member to a trip, optionally linked to a registered user.
func (s *TripService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "trip_id", req.Msg.TripID, "name", req.Msg.Name)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	access, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		TripID: access.trip.ID,
		Name:   req.Msg.Name,
		Email:  req.Msg.Email,
		Avatar: req.Msg.Avatar,
	}
	if req.Msg.Username != "" {
		user, err := s.store.GetUserByUsername(ctx, req.Msg.Username)
		if err != nil {
			return nil, toConnectError(err)
		}
		for _, m := range access.members {
			if m.UserID == user.ID {
				return nil, connect.NewError(connect.CodeAlreadyExists,
					fmt.Errorf("user %s is already member %s of this trip", user.Username, m.ID))
			}
		}
		member.UserID = user.ID
	}

	if err := s.store.AddMember(ctx, member); err != nil {
		slog.Error("AddMember failed", "trip_id", access.trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.ledger.Invalidate(ctx, access.trip.ID)
	s.notifier.Notify(ctx, notify.NewEvent(notify.KindMemberAdded, access.trip.ID, access.userID, member.ID,
		fmt.Sprintf("%s joined the trip", member.Name)))

	slog.Info("Member added", "trip_id", access.trip.ID, "member_id", member.ID)
	return connect.NewResponse(&api.AddMemberResponse{Member: toAPIMember(member)}), nil
}

// UpdateMember changes a member's display fields.
func (s *TripService) UpdateMember(ctx context.Context, req *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error) {
	slog.Info("UpdateMember request received", "member_id", req.Msg.MemberID)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	existing, err := s.store.GetMember(ctx, req.Msg.MemberID)
	if err != nil {
		return nil, toConnectError(err)
	}
	access, err := loadTrip(ctx, s.store, existing.TripID)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Msg.Name
	existing.Email = req.Msg.Email
	existing.Avatar = req.Msg.Avatar
	if err := s.store.UpdateMember(ctx, existing); err != nil {
		slog.Error("UpdateMember failed", "member_id", existing.ID, "error", err)
		return nil, toConnectError(err)
	}
	// Cached views carry member names.
	s.ledger.Invalidate(ctx, access.trip.ID)

	slog.Info("Member updated", "member_id", existing.ID)
	return connect.NewResponse(&api.UpdateMemberResponse{Member: toAPIMember(existing)}), nil
}

// RemoveMember deletes a member that has no expenses or payments.
// The owner member cannot be removed.
func (s *TripService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "member_id", req.Msg.MemberID)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	member, err := s.store.GetMember(ctx, req.Msg.MemberID)
	if err != nil {
		return nil, toConnectError(err)
	}
	access, err := loadTrip(ctx, s.store, member.TripID)
	if err != nil {
		return nil, err
	}
	if member.IsOwner {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("the trip owner cannot be removed"))
	}

	if err := s.store.DeleteMember(ctx, member.ID); err != nil {
		slog.Warn("RemoveMember failed", "member_id", member.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.ledger.Invalidate(ctx, access.trip.ID)

	slog.Info("Member removed", "trip_id", access.trip.ID, "member_id", member.ID)
	return connect.NewResponse(&api.RemoveMemberResponse{}), nil
}

// GetTripSummary compares the trip's spending with its budget.
func (s *TripService) GetTripSummary(ctx context.Context, req *connect.Request[api.GetTripSummaryRequest]) (*connect.Response[api.GetTripSummaryResponse], error) {
	slog.Info("GetTripSummary request received", "trip_id", req.Msg.TripID)

	if err := validateRequest(s.validate, req.Msg); err != nil {
		return nil, err
	}
	access, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	summary, err := s.ledger.Summary(ctx, access.trip)
	if err != nil {
		slog.Error("GetTripSummary failed", "trip_id", access.trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetTripSummary successful",
		"trip_id", access.trip.ID,
		"spent", money.Format(summary.Spent),
		"over_budget", summary.OverBudget,
	)
	return connect.NewResponse(&api.GetTripSummaryResponse{Summary: toAPISummary(summary)}), nil
}

// checkDateRange rejects an end date before the start date. Both are already
// validated ISO dates, so they compare correctly as strings.
func checkDateRange(start, end string) error {
	if start != "" && end != "" && end < start {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("endDate %s is before startDate %s", end, start))
	}
	return nil
}
