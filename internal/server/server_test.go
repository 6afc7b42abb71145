package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/config"
	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/notify"
	"github.com/mmynk/tripsplit/internal/observability"
	"github.com/mmynk/tripsplit/internal/storage/sqlite"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

func newTestServer(t *testing.T, rateLimit int) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		AppEnv:        "test",
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		RateLimit:     rateLimit,
		AllowedOrigin: "https://tripsplit.example",
	}
	metrics := observability.NewMetrics()
	handler := NewRouter(Params{
		Config:        cfg,
		Store:         store,
		Ledger:        ledger.New(store, nil, metrics),
		Notifier:      notify.LogNotifier{},
		Authenticator: auth.NewPasswordAuthenticator(store, auth.WithCost(bcrypt.MinCost)),
		JWT:           auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		Metrics:       metrics,
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, 100)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, 100)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+apiconnect.TripServiceCreateTripProcedure, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://tripsplit.example", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestConnectFlow(t *testing.T) {
	srv := newTestServer(t, 100)
	ctx := context.Background()

	authClient := apiconnect.NewAuthServiceClient(http.DefaultClient, srv.URL)
	tripClient := apiconnect.NewTripServiceClient(http.DefaultClient, srv.URL)

	_, err := tripClient.ListTrips(ctx, connect.NewRequest(&api.ListTripsRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	reg, err := authClient.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Username: "alice",
		Password: "correct-horse",
	}))
	require.NoError(t, err)

	createReq := connect.NewRequest(&api.CreateTripRequest{Name: "Lisbon", Budget: "500"})
	createReq.Header().Set("Authorization", "Bearer "+reg.Msg.Token)
	created, err := tripClient.CreateTrip(ctx, createReq)
	require.NoError(t, err)
	assert.Equal(t, reg.Msg.User.ID, created.Msg.Trip.OwnerID)

	listReq := connect.NewRequest(&api.ListTripsRequest{})
	listReq.Header().Set("Authorization", "Bearer "+reg.Msg.Token)
	list, err := tripClient.ListTrips(ctx, listReq)
	require.NoError(t, err)
	require.Len(t, list.Msg.Trips, 1)
	assert.Equal(t, created.Msg.Trip.ID, list.Msg.Trips[0].ID)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `tripsplit_rpc_requests_total{code="ok",procedure="/tripsplit.v1.TripService/CreateTrip"} 1`)
	assert.Contains(t, string(body), `tripsplit_rpc_requests_total{code="unauthenticated",procedure="/tripsplit.v1.TripService/ListTrips"} 1`)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, 2)

	codes := make([]int, 3)
	for i := range codes {
		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)
		resp.Body.Close()
		codes[i] = resp.StatusCode
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
