package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// tripAccess is a trip loaded on behalf of the calling user.
type tripAccess struct {
	userID  string
	trip    *models.Trip
	members []*models.Member
}

// requireUser returns the authenticated caller's ID.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// loadTrip loads a trip and its members and checks that the caller owns the
// trip or is linked to one of its members.
func loadTrip(ctx context.Context, store storage.Store, tripID string) (*tripAccess, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	trip, err := store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, toConnectError(err)
	}
	members, err := store.ListMembers(ctx, tripID)
	if err != nil {
		return nil, toConnectError(err)
	}

	access := &tripAccess{userID: userID, trip: trip, members: members}
	if !access.isOwner() && access.linkedMember() == nil {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotTripMember)
	}
	return access, nil
}

func (a *tripAccess) isOwner() bool {
	return a.trip.OwnerID == a.userID
}

// requireOwner fails unless the caller owns the trip.
func (a *tripAccess) requireOwner() error {
	if !a.isOwner() {
		return connect.NewError(connect.CodePermissionDenied, errNotTripOwner)
	}
	return nil
}

// linkedMember returns the member linked to the caller, if any.
func (a *tripAccess) linkedMember() *models.Member {
	for _, m := range a.members {
		if m.UserID != "" && m.UserID == a.userID {
			return m
		}
	}
	return nil
}

// member looks up a member of this trip by ID.
func (a *tripAccess) member(id string) *models.Member {
	for _, m := range a.members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// memberIDs returns all member IDs in insertion order.
func (a *tripAccess) memberIDs() []string {
	ids := make([]string, len(a.members))
	for i, m := range a.members {
		ids[i] = m.ID
	}
	return ids
}

func (a *tripAccess) memberNames() map[string]string {
	names := make(map[string]string, len(a.members))
	for _, m := range a.members {
		names[m.ID] = m.Name
	}
	return names
}
