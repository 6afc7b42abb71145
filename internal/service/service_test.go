package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/notify"
	"github.com/mmynk/tripsplit/internal/storage/sqlite"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

// testUserHeader carries the caller's user ID in tests instead of a JWT.
const testUserHeader = "X-Test-User"

// testAuthInterceptor returns a Connect interceptor that sets the user ID from
// testUserHeader in the context.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if userID := req.Header().Get(testUserHeader); userID != "" {
				ctx = middleware.WithUser(ctx, userID, "")
			}
			return next(ctx, req)
		}
	}
}

// recordingNotifier keeps every event it is sent.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Notify(_ context.Context, event notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) kinds() []notify.Kind {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := make([]notify.Kind, len(n.events))
	for i, e := range n.events {
		kinds[i] = e.Kind
	}
	return kinds
}

type testEnv struct {
	store       *sqlite.SQLiteStore
	notifier    *recordingNotifier
	jwt         *auth.JWTManager
	auth        *apiconnect.AuthServiceClient
	trips       *apiconnect.TripServiceClient
	expenses    *apiconnect.ExpenseServiceClient
	settlements *apiconnect.SettlementServiceClient
}

// setupTestServer creates a test server backed by a temporary SQLite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "tripsplit-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	notifier := &recordingNotifier{}
	l := ledger.New(store, nil, nil)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store, auth.WithCost(bcrypt.MinCost))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Auth uses real tokens; the trip services trust testUserHeader.
	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		NewAuthService(authenticator, jwtManager, store, logger),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
	)
	testAuth := connect.WithInterceptors(testAuthInterceptor())
	tripPath, tripHandler := apiconnect.NewTripServiceHandler(NewTripService(store, l, notifier), testAuth)
	expensePath, expenseHandler := apiconnect.NewExpenseServiceHandler(NewExpenseService(store, l, notifier), testAuth)
	settlementPath, settlementHandler := apiconnect.NewSettlementServiceHandler(NewSettlementService(store, l, notifier), testAuth)

	mux := http.NewServeMux()
	mux.Handle(authPath, authHandler)
	mux.Handle(tripPath, tripHandler)
	mux.Handle(expensePath, expenseHandler)
	mux.Handle(settlementPath, settlementHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		store:       store,
		notifier:    notifier,
		jwt:         jwtManager,
		auth:        apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		trips:       apiconnect.NewTripServiceClient(http.DefaultClient, server.URL),
		expenses:    apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		settlements: apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL),
	}
}

// as builds a request made by user.
func as[T any](user *models.User, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if user != nil {
		req.Header().Set(testUserHeader, user.ID)
	}
	return req
}

// newUser stores an account directly, bypassing registration.
func (e *testEnv) newUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := models.NewUser(username, username+"@example.com", "unused-hash")
	if err := e.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
	return user
}

// newTrip creates a trip owned by owner with the given guest members. The
// returned members start with the owner, followed by the guests in order.
func (e *testEnv) newTrip(t *testing.T, owner *models.User, budget string, guests ...string) (*api.Trip, []*api.Member) {
	t.Helper()
	ctx := context.Background()

	resp, err := e.trips.CreateTrip(ctx, as(owner, &api.CreateTripRequest{
		Name:        "Lisbon",
		Destination: "Portugal",
		StartDate:   "2025-06-01",
		EndDate:     "2025-06-08",
		Budget:      budget,
	}))
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	trip := resp.Msg.Trip
	members := trip.Members

	for _, name := range guests {
		resp, err := e.trips.AddMember(ctx, as(owner, &api.AddMemberRequest{TripID: trip.ID, Name: name}))
		if err != nil {
			t.Fatalf("AddMember(%s) failed: %v", name, err)
		}
		members = append(members, resp.Msg.Member)
	}
	return trip, members
}

// addExpense records an equal split among all members.
func (e *testEnv) addExpense(t *testing.T, user *models.User, tripID, paidBy, amount, category string) *api.Expense {
	t.Helper()
	resp, err := e.expenses.CreateExpense(context.Background(), as(user, &api.CreateExpenseRequest{
		TripID: tripID,
		ExpenseInput: api.ExpenseInput{
			Description: "shared " + category,
			Amount:      amount,
			Category:    category,
			PaidBy:      paidBy,
			Date:        "2025-06-02",
		},
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}
