// Package server assembles the HTTP router that serves the Connect APIs.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/config"
	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/notify"
	"github.com/mmynk/tripsplit/internal/observability"
	"github.com/mmynk/tripsplit/internal/service"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

// Params groups the dependencies of the router.
type Params struct {
	Config        *config.Config
	Store         storage.Store
	Ledger        *ledger.Ledger
	Notifier      notify.Notifier
	Authenticator auth.Authenticator
	JWT           *auth.JWTManager
	Metrics       *observability.Metrics
	Logger        *slog.Logger
}

// NewRouter builds the chi router with every Connect service mounted.
func NewRouter(p Params) http.Handler {
	r := chi.NewRouter()
	for _, mw := range middlewareStack(p) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", p.Metrics.Handler())

	// Metrics wraps auth so rejected calls are counted; logging runs inside
	// auth to see the caller.
	public := connect.WithInterceptors(
		middleware.MetricsInterceptor(p.Metrics),
		middleware.OptionalAuth(p.JWT),
		middleware.LoggingInterceptor(),
	)
	protected := connect.WithInterceptors(
		middleware.MetricsInterceptor(p.Metrics),
		middleware.RequireAuth(p.JWT),
		middleware.LoggingInterceptor(),
	)

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		service.NewAuthService(p.Authenticator, p.JWT, p.Store, logger), public)
	tripPath, tripHandler := apiconnect.NewTripServiceHandler(
		service.NewTripService(p.Store, p.Ledger, p.Notifier), protected)
	expensePath, expenseHandler := apiconnect.NewExpenseServiceHandler(
		service.NewExpenseService(p.Store, p.Ledger, p.Notifier), protected)
	settlementPath, settlementHandler := apiconnect.NewSettlementServiceHandler(
		service.NewSettlementService(p.Store, p.Ledger, p.Notifier), protected)

	mount(r, authPath, authHandler)
	mount(r, tripPath, tripHandler)
	mount(r, expensePath, expenseHandler)
	mount(r, settlementPath, settlementHandler)

	return r
}

// mount registers a Connect service under its path prefix.
func mount(r chi.Router, path string, handler http.Handler) {
	r.Handle(path+"*", handler)
	slog.Debug("Connect service mounted", "path", path)
}

// New wraps the router in an http.Server. h2c serves HTTP/2 without TLS, which
// gRPC clients of the Connect handlers require.
func New(p Params) *http.Server {
	return &http.Server{
		Addr:              p.Config.AppAddr,
		Handler:           h2c.NewHandler(NewRouter(p), &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       p.Config.ReadTimeout,
		WriteTimeout:      p.Config.WriteTimeout,
	}
}

func middlewareStack(p Params) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        p.Config.IsProduction(),
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	})

	return []func(http.Handler) http.Handler{
		chimw.RealIP,
		chimw.RequestID,
		chimw.Recoverer,
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					slog.Warn("secure headers blocked request", "error", err)
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		httprate.Limit(p.Config.RateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
		corsMiddleware(p.Config.AllowedOrigin),
		loggingMiddleware,
		p.Metrics.Middleware,
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimw.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
			w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
