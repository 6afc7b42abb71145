package service

import (
	"context"
	"slices"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/notify"
	"github.com/mmynk/tripsplit/pkg/api"
)

func TestCreateTrip(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "alice")

	trip, members := env.newTrip(t, alice, "1500")

	if trip.ID == "" {
		t.Error("expected trip ID to be set")
	}
	if trip.OwnerID != alice.ID {
		t.Errorf("expected owner %s, got %s", alice.ID, trip.OwnerID)
	}
	if trip.Budget != "1500.00" {
		t.Errorf("expected budget 1500.00, got %s", trip.Budget)
	}
	if len(members) != 1 {
		t.Fatalf("expected only the owner member, got %d", len(members))
	}
	owner := members[0]
	if !owner.IsOwner || owner.UserID != alice.ID || owner.Name != "alice" {
		t.Errorf("unexpected owner member: %+v", owner)
	}
}

func TestCreateTripOwnerName(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "alice")

	resp, err := env.trips.CreateTrip(context.Background(), as(alice, &api.CreateTripRequest{
		Name:      "Kyoto",
		OwnerName: "Alice A.",
	}))
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	if got := resp.Msg.Trip.Members[0].Name; got != "Alice A." {
		t.Errorf("expected owner name %q, got %q", "Alice A.", got)
	}
	if resp.Msg.Trip.Budget != "0.00" {
		t.Errorf("expected zero budget, got %s", resp.Msg.Trip.Budget)
	}
}

func TestCreateTripValidation(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "alice")
	ctx := context.Background()

	tests := []struct {
		name string
		req  *api.CreateTripRequest
		code connect.Code
	}{
		{"missing name", &api.CreateTripRequest{}, connect.CodeInvalidArgument},
		{"bad date", &api.CreateTripRequest{Name: "x", StartDate: "2025-13-01"}, connect.CodeInvalidArgument},
		{"end before start", &api.CreateTripRequest{Name: "x", StartDate: "2025-06-08", EndDate: "2025-06-01"}, connect.CodeInvalidArgument},
		{"negative budget", &api.CreateTripRequest{Name: "x", Budget: "-10"}, connect.CodeInvalidArgument},
		{"too many decimals", &api.CreateTripRequest{Name: "x", Budget: "10.001"}, connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.trips.CreateTrip(ctx, as(alice, tt.req))
			assertCode(t, err, tt.code)
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := env.trips.CreateTrip(ctx, as(nil, &api.CreateTripRequest{Name: "x"}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})
}

func TestGetTripAccess(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "alice")
	mallory := env.newUser(t, "mallory")
	trip, _ := env.newTrip(t, alice, "", "Bob")
	ctx := context.Background()

	resp, err := env.trips.GetTrip(ctx, as(alice, &api.GetTripRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	if len(resp.Msg.Trip.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(resp.Msg.Trip.Members))
	}

	_, err = env.trips.GetTrip(ctx, as(mallory, &api.GetTripRequest{TripID: trip.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.trips.GetTrip(ctx, as(alice, &api.GetTripRequest{TripID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestGetTripBalances(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "alice")
	trip, members := env.newTrip(t, alice, "", "Bob", "Carol")

	env.addExpense(t, alice, trip.ID, members[0].ID, "90", "food")

	resp, err := env.trips.GetTrip(context.Background(), as(alice, &api.GetTripRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	want := []string{"60.00", "-30.00", "-30.00"}
	for i, m := range resp.Msg.Trip.Members {
		if m.Balance != want[i] {
			t.Errorf("member %s: expected balance %s, got %s", m.Name, want[i], m.Balance)
		}
	}
}

func TestLinkedMemberSeesTrip(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "alice")
	bob := env.newUser(t, "bob")
	trip, _ := env.newTrip(t, alice, "")
	ctx := context.Background()

	list, err := env.trips.ListTrips(ctx, as(bob, &api.ListTripsRequest{}))
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(list.Msg.Trips) != 0 {
		t.Fatalf("expected bob to see no trips, got %d", len(list.Msg.Trips))
	}

	added, err := env.trips.AddMember(ctx, as(alice, &api.AddMemberRequest{
		TripID:   trip.ID,
		Name:     "Bob",
		Username: "bob",
	}))
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if added.Msg.Member.UserID != bob.ID {
		t.Errorf("expected member linked to %s, got %q", bob.ID, added.Msg.Member.UserID)
	}

	list, err = env.trips.ListTrips(ctx, as(bob, &api.ListTripsRequest{}))
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(list.Msg.Trips) != 1 || list.Msg.Trips[0].ID != trip.ID {
		t.Fatalf("expected bob to see trip %s, got %+v", trip.ID, list.Msg.Trips)
	}

	// Linked members can read but not edit the trip.
	if _, err := env.trips.GetTrip(ctx, as(bob, &api.GetTripRequest{TripID: trip.ID})); err != nil {
		t.Errorf("GetTrip as linked member failed: %v", err)
	}
	_, err = env.trips.UpdateTrip(ctx, as(bob, &api.UpdateTripRequest{TripID: trip.ID, Name: "Mine now"}))
	assertCode(t, err, connect.CodePermissionDenied)
	_, err = env.trips.DeleteTrip(ctx, as(bob, &api.DeleteTripRequest{TripID: trip.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.trips.AddMember(ctx, as(alice, &api.AddMemberRequest{TripID: trip.ID, Name: "Bob again", Username: "bob"}))
	assertCode(t, err, connect.CodeAlreadyExists)

	_, err = env.trips.AddMember(ctx, as(alice, &api.AddMemberRequest{TripID: trip.ID, Name: "Ghost", Username: "ghost"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestUpdateAndDeleteTrip(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "alice")
	trip, _ := env.newTrip(t, alice, "100")
	ctx := context.Background()

	resp, err := env.trips.UpdateTrip(ctx, as(alice, &api.UpdateTripRequest{
		TripID:      trip.ID,
		Name:        "Porto",
		Destination: "Portugal",
		Budget:      "250.5",
	}))
	if err != nil {
		t.Fatalf("UpdateTrip failed: %v", err)
	}
	if resp.Msg.Trip.Name != "Porto" || resp.Msg.Trip.Budget != "250.50" {
		t.Errorf("unexpected updated trip: %+v", resp.Msg.Trip)
	}
	if !slices.Contains(env.notifier.kinds(), notify.KindTripUpdate) {
		t.Errorf("expected a trip_update event, got %v", env.notifier.kinds())
	}

	if _, err := env.trips.DeleteTrip(ctx, as(alice, &api.DeleteTripRequest{TripID: trip.ID})); err != nil {
		t.Fatalf("DeleteTrip failed: %v", err)
	}
	_, err = env.trips.GetTrip(ctx, as(alice, &api.GetTripRequest{TripID: trip.ID}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestMembers(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "alice")
	trip, members := env.newTrip(t, alice, "", "Bob", "Carol")
	owner, bob, carol := members[0], members[1], members[2]
	ctx := context.Background()

	if !slices.Contains(env.notifier.kinds(), notify.KindMemberAdded) {
		t.Errorf("expected a member_added event, got %v", env.notifier.kinds())
	}

	updated, err := env.trips.UpdateMember(ctx, as(alice, &api.UpdateMemberRequest{
		MemberID: carol.ID,
		Name:     "Caroline",
		Email:    "carol@example.com",
	}))
	if err != nil {
		t.Fatalf("UpdateMember failed: %v", err)
	}
	if updated.Msg.Member.Name != "Caroline" {
		t.Errorf("expected name Caroline, got %s", updated.Msg.Member.Name)
	}

	env.addExpense(t, alice, trip.ID, bob.ID, "30", "transportation")

	// Bob and Carol now appear in an expense.
	_, err = env.trips.RemoveMember(ctx, as(alice, &api.RemoveMemberRequest{MemberID: bob.ID}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	_, err = env.trips.RemoveMember(ctx, as(alice, &api.RemoveMemberRequest{MemberID: owner.ID}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	dave, err := env.trips.AddMember(ctx, as(alice, &api.AddMemberRequest{TripID: trip.ID, Name: "Dave"}))
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if _, err := env.trips.RemoveMember(ctx, as(alice, &api.RemoveMemberRequest{MemberID: dave.Msg.Member.ID})); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	resp, err := env.trips.GetTrip(ctx, as(alice, &api.GetTripRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	if len(resp.Msg.Trip.Members) != 3 {
		t.Errorf("expected 3 members after removing Dave, got %d", len(resp.Msg.Trip.Members))
	}
}

func TestGetTripSummary(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "alice")
	trip, members := env.newTrip(t, alice, "200", "Bob")

	env.addExpense(t, alice, trip.ID, members[0].ID, "90", "food")
	env.addExpense(t, alice, trip.ID, members[1].ID, "80", "accommodation")

	resp, err := env.trips.GetTripSummary(context.Background(), as(alice, &api.GetTripSummaryRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("GetTripSummary failed: %v", err)
	}
	s := resp.Msg.Summary
	if s.Spent != "170.00" || s.Remaining != "30.00" || s.PercentUsed != "85.00" {
		t.Errorf("unexpected totals: %+v", s)
	}
	if s.OverBudget || !s.NearBudget {
		t.Errorf("expected near budget but not over, got over=%v near=%v", s.OverBudget, s.NearBudget)
	}
	if len(s.ByCategory) != 2 || s.ByCategory[0].Category != "food" {
		t.Errorf("expected food first in categories, got %+v", s.ByCategory)
	}
}
