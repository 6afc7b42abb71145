package service

import (
	"context"
	"slices"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/notify"
	"github.com/mmynk/tripsplit/pkg/api"
)

func TestCreateExpenseEqualSplit(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "alice")
	trip, members := env.newTrip(t, alice, "", "Bob", "Carol")

	expense := env.addExpense(t, alice, trip.ID, members[1].ID, "100", "food")

	if expense.Amount != "100.00" || expense.SplitMethod != "equal" {
		t.Errorf("unexpected expense: %+v", expense)
	}
	// Residue cents go to the first participants.
	want := []string{"33.34", "33.33", "33.33"}
	if len(expense.SplitAmong) != len(want) {
		t.Fatalf("expected %d splits, got %d", len(want), len(expense.SplitAmong))
	}
	for i, s := range expense.SplitAmong {
		if s.MemberID != members[i].ID || s.Amount != want[i] {
			t.Errorf("split %d: expected %s for %s, got %s for %s", i, want[i], members[i].ID, s.Amount, s.MemberID)
		}
	}
	if !slices.Contains(env.notifier.kinds(), notify.KindExpenseAdded) {
		t.Errorf("expected an expense_added event, got %v", env.notifier.kinds())
	}
}

func TestCreateExpenseParticipants(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "alice")
	trip, members := env.newTrip(t, alice, "", "Bob", "Carol")

	resp, err := env.expenses.CreateExpense(context.Background(), as(alice, &api.CreateExpenseRequest{
		TripID: trip.ID,
		ExpenseInput: api.ExpenseInput{
			Description:  "Taxi",
			Amount:       "25",
			Category:     "transportation",
			PaidBy:       members[0].ID,
			Date:         "2025-06-03",
			Participants: []string{members[0].ID, members[2].ID},
		},
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	splits := resp.Msg.Expense.SplitAmong
	if len(splits) != 2 || splits[0].Amount != "12.50" || splits[1].MemberID != members[2].ID {
		t.Errorf("unexpected splits: %+v", splits)
	}
}

func TestCreateExpenseCustomSplit(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "alice")
	trip, members := env.newTrip(t, alice, "", "Bob")
	ctx := context.Background()

	input := api.ExpenseInput{
		Description: "Hotel",
		Amount:      "300",
		Category:    "accommodation",
		PaidBy:      members[0].ID,
		Date:        "2025-06-01",
		SplitMethod: "custom",
		SplitAmong: []*api.SplitShare{
			{MemberID: members[0].ID, Amount: "100"},
			{MemberID: members[1].ID, Amount: "200"},
		},
	}
	resp, err := env.expenses.CreateExpense(ctx, as(alice, &api.CreateExpenseRequest{TripID: trip.ID, ExpenseInput: input}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if resp.Msg.Expense.SplitMethod != "custom" || resp.Msg.Expense.SplitAmong[1].Amount != "200.00" {
		t.Errorf("unexpected expense: %+v", resp.Msg.Expense)
	}

	input.SplitAmong[1].Amount = "199.98"
	_, err = env.expenses.CreateExpense(ctx, as(alice, &api.CreateExpenseRequest{TripID: trip.ID, ExpenseInput: input}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestCreateExpenseValidation(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "alice")
	mallory := env.newUser(t, "mallory")
	trip, members := env.newTrip(t, alice, "")
	other, otherMembers := env.newTrip(t, mallory, "")
	ctx := context.Background()

	valid := func() api.ExpenseInput {
		return api.ExpenseInput{
			Description: "Lunch",
			Amount:      "20",
			Category:    "food",
			PaidBy:      members[0].ID,
			Date:        "2025-06-02",
		}
	}

	tests := []struct {
		name   string
		modify func(in *api.ExpenseInput)
	}{
		{"missing description", func(in *api.ExpenseInput) { in.Description = "" }},
		{"negative amount", func(in *api.ExpenseInput) { in.Amount = "-20" }},
		{"zero amount", func(in *api.ExpenseInput) { in.Amount = "0" }},
		{"unknown category", func(in *api.ExpenseInput) { in.Category = "gifts" }},
		{"bad date", func(in *api.ExpenseInput) { in.Date = "02/06/2025" }},
		{"unknown split method", func(in *api.ExpenseInput) { in.SplitMethod = "percent" }},
		{"custom without shares", func(in *api.ExpenseInput) { in.SplitMethod = "custom" }},
		{"payer from another trip", func(in *api.ExpenseInput) { in.PaidBy = otherMembers[0].ID }},
		{"participant from another trip", func(in *api.ExpenseInput) { in.Participants = []string{otherMembers[0].ID} }},
		{"duplicate participant", func(in *api.ExpenseInput) { in.Participants = []string{members[0].ID, members[0].ID} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.modify(&in)
			_, err := env.expenses.CreateExpense(ctx, as(alice, &api.CreateExpenseRequest{TripID: trip.ID, ExpenseInput: in}))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}

	t.Run("not a member", func(t *testing.T) {
		_, err := env.expenses.CreateExpense(ctx, as(alice, &api.CreateExpenseRequest{TripID: other.ID, ExpenseInput: valid()}))
		assertCode(t, err, connect.CodePermissionDenied)
	})
}

func TestUpdateAndDeleteExpense(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "alice")
	trip, members := env.newTrip(t, alice, "", "Bob")
	ctx := context.Background()

	expense := env.addExpense(t, alice, trip.ID, members[0].ID, "40", "food")

	updated, err := env.expenses.UpdateExpense(ctx, as(alice, &api.UpdateExpenseRequest{
		ExpenseID: expense.ID,
		ExpenseInput: api.ExpenseInput{
			Description: "Dinner",
			Amount:      "60",
			Category:    "food",
			PaidBy:      members[1].ID,
			Date:        "2025-06-04",
		},
	}))
	if err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	if updated.Msg.Expense.ID != expense.ID || updated.Msg.Expense.PaidBy != members[1].ID {
		t.Errorf("unexpected updated expense: %+v", updated.Msg.Expense)
	}

	got, err := env.expenses.GetExpense(ctx, as(alice, &api.GetExpenseRequest{ExpenseID: expense.ID}))
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if got.Msg.Expense.Amount != "60.00" || got.Msg.Expense.SplitAmong[0].Amount != "30.00" {
		t.Errorf("expected stored expense to be replaced, got %+v", got.Msg.Expense)
	}

	balances, err := env.settlements.GetBalances(ctx, as(alice, &api.GetBalancesRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if balances.Msg.Balances[0].NetBalance != "-30.00" || balances.Msg.Balances[1].NetBalance != "30.00" {
		t.Errorf("balances not recomputed after update: %+v", balances.Msg.Balances)
	}

	if _, err := env.expenses.DeleteExpense(ctx, as(alice, &api.DeleteExpenseRequest{ExpenseID: expense.ID})); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	_, err = env.expenses.GetExpense(ctx, as(alice, &api.GetExpenseRequest{ExpenseID: expense.ID}))
	assertCode(t, err, connect.CodeNotFound)

	kinds := env.notifier.kinds()
	if !slices.Contains(kinds, notify.KindExpenseUpdated) || !slices.Contains(kinds, notify.KindExpenseDeleted) {
		t.Errorf("expected update and delete events, got %v", kinds)
	}
}

func TestListExpenses(t *testing.T) {
	env := setupTestServer(t)
	alice := env.newUser(t, "alice")
	trip, members := env.newTrip(t, alice, "", "Bob")
	ctx := context.Background()

	resp, err := env.expenses.ListExpenses(ctx, as(alice, &api.ListExpensesRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(resp.Msg.Expenses) != 0 {
		t.Fatalf("expected no expenses, got %d", len(resp.Msg.Expenses))
	}

	env.addExpense(t, alice, trip.ID, members[0].ID, "10", "food")
	env.addExpense(t, alice, trip.ID, members[1].ID, "20", "shopping")

	resp, err = env.expenses.ListExpenses(ctx, as(alice, &api.ListExpensesRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(resp.Msg.Expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(resp.Msg.Expenses))
	}
	for _, e := range resp.Msg.Expenses {
		if len(e.SplitAmong) != 2 {
			t.Errorf("expense %s: expected 2 splits, got %d", e.ID, len(e.SplitAmong))
		}
	}
}
