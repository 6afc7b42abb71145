// Package ledger derives trip balances and suggested settlements from the
// stored expense and payment log.
//
// Balances are never persisted. Every read recomputes them from the log, and
// the optional Redis cache only memoises that computation until the next write
// to the trip bumps its version.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/money"
	"github.com/mmynk/tripsplit/internal/observability"
	"github.com/mmynk/tripsplit/internal/storage"
)

// ErrInvalidPayment is returned for payments between the same member or with
// an amount at or below money.Tolerance.
var ErrInvalidPayment = errors.New("invalid payment")

// Store is the subset of storage.Store the ledger reads and writes.
type Store interface {
	ListMembers(ctx context.Context, tripID string) ([]*models.Member, error)
	ListExpenses(ctx context.Context, tripID string) ([]*models.Expense, error)
	storage.PaymentStore
}

// View is the derived financial state of one trip. Views may be shared
// between callers and must be treated as read-only.
type View struct {
	TripID      string                     `json:"tripId"`
	Balances    []calculator.MemberBalance `json:"balances"`
	Settlements []calculator.Settlement    `json:"settlements"`
	Payments    []*models.Payment          `json:"payments"`
	// Residual holds balances the reducer could not resolve.
	Residual []calculator.MemberBalance `json:"residual,omitempty"`
}

// Err reports whether the view's balances are inconsistent. The returned
// error wraps calculator.ErrImbalanced.
func (v *View) Err() error {
	if len(v.Residual) > 0 {
		return &calculator.ResidualError{Residual: v.Residual}
	}
	return calculator.CheckBalanced(v.Balances)
}

// Ledger computes trip views and records settlement payments.
type Ledger struct {
	store   Store
	cache   *Cache
	metrics *observability.Metrics
	group   singleflight.Group

	mu   sync.Mutex
	gens map[string]uint64
}

// New creates a Ledger. cache and metrics may be nil.
func New(store Store, cache *Cache, metrics *observability.Metrics) *Ledger {
	return &Ledger{store: store, cache: cache, metrics: metrics, gens: make(map[string]uint64)}
}

// generation counts the trip's writes seen by this process. It keeps reads
// that start after a write from joining a computation that started before it.
func (l *Ledger) generation(tripID string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gens[tripID]
}

func (l *Ledger) advance(tripID string) {
	l.mu.Lock()
	l.gens[tripID]++
	l.mu.Unlock()
}

// View returns the current balances, suggested settlements and recorded
// payments of a trip. Concurrent requests for the same trip version share
// one computation.
func (l *Ledger) View(ctx context.Context, tripID string) (*View, error) {
	key, err := l.cache.Key(ctx, tripID)
	if err != nil {
		slog.Warn("ledger cache unavailable", "trip_id", tripID, "error", err)
		return l.compute(ctx, tripID)
	}

	if l.cache.enabled() {
		var cached View
		hit, err := l.cache.Get(ctx, key, &cached)
		if err != nil {
			slog.Warn("ledger cache read failed", "trip_id", tripID, "error", err)
		}
		l.metrics.ObserveCache(hit)
		if hit {
			return &cached, nil
		}
	}

	flight := key + "#" + strconv.FormatUint(l.generation(tripID), 10)
	ch := l.group.DoChan(flight, func() (any, error) {
		// Joined callers must not fail because the first one went away.
		shared := context.WithoutCancel(ctx)
		view, err := l.compute(shared, tripID)
		if err != nil {
			return nil, err
		}
		if err := l.cache.Set(shared, key, view); err != nil {
			slog.Warn("ledger cache write failed", "trip_id", tripID, "error", err)
		}
		return view, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*View), nil
	}
}

// compute loads the trip log and runs the calculator over it.
func (l *Ledger) compute(ctx context.Context, tripID string) (*View, error) {
	var (
		members  []*models.Member
		expenses []*models.Expense
		payments []*models.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		members, err = l.store.ListMembers(gctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = l.store.ListExpenses(gctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		payments, err = l.store.ListPayments(gctx, tripID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load trip %s: %w", tripID, err)
	}

	balances, err := calculator.ComputeMemberBalances(
		toCalcMembers(members), toCalcExpenses(expenses), toCalcPayments(payments),
	)
	if err != nil {
		return nil, fmt.Errorf("compute balances for trip %s: %w", tripID, err)
	}

	view := &View{TripID: tripID, Balances: balances, Payments: payments}
	if err := calculator.CheckBalanced(balances); err != nil {
		slog.Warn("trip balances do not sum to zero", "trip_id", tripID, "error", err)
	}

	settlements, err := calculator.ReduceToSettlements(balances, tripID)
	var residual *calculator.ResidualError
	switch {
	case errors.As(err, &residual):
		slog.Warn("settlement left unresolved balances", "trip_id", tripID, "error", err)
		view.Residual = residual.Residual
		l.metrics.ObserveSettlement("imbalanced")
	case err != nil:
		return nil, fmt.Errorf("reduce settlements for trip %s: %w", tripID, err)
	default:
		l.metrics.ObserveSettlement("ok")
	}
	view.Settlements = settlements
	return view, nil
}

// Summary computes the budget summary of a trip from its expenses.
func (l *Ledger) Summary(ctx context.Context, trip *models.Trip) (calculator.BudgetSummary, error) {
	expenses, err := l.store.ListExpenses(ctx, trip.ID)
	if err != nil {
		return calculator.BudgetSummary{}, fmt.Errorf("load expenses for trip %s: %w", trip.ID, err)
	}
	return calculator.SummarizeBudget(trip.Budget, toCalcExpenses(expenses)), nil
}

// Invalidate drops cached views of the trip. Call it after every write that
// changes members, expenses or payments.
func (l *Ledger) Invalidate(ctx context.Context, tripID string) {
	l.advance(tripID)
	if err := l.cache.Bump(ctx, tripID); err != nil {
		slog.Error("ledger cache invalidation failed", "trip_id", tripID, "error", err)
	}
}

// MarkSettled records that from paid amount to to. The payment is a ledger
// entry: it moves both members' balances on the next computation.
func (l *Ledger) MarkSettled(ctx context.Context, tripID, from, to string, amount decimal.Decimal, createdBy string) (*models.Payment, error) {
	amount = money.Round(amount)
	if from == "" || to == "" || from == to {
		return nil, fmt.Errorf("%w: payer and payee must be two different members", ErrInvalidPayment)
	}
	if amount.LessThanOrEqual(money.Tolerance) {
		return nil, fmt.Errorf("%w: amount %s is too small", ErrInvalidPayment, money.Format(amount))
	}

	payment := &models.Payment{
		TripID:     tripID,
		FromMember: from,
		ToMember:   to,
		Amount:     amount,
		CreatedBy:  createdBy,
	}
	if err := l.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}
	l.Invalidate(ctx, tripID)
	return payment, nil
}

// UndoPayment deletes a recorded payment of the trip.
func (l *Ledger) UndoPayment(ctx context.Context, tripID, paymentID string) error {
	payment, err := l.store.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.TripID != tripID {
		return fmt.Errorf("payment %s in trip %s: %w", paymentID, tripID, storage.ErrNotFound)
	}
	if err := l.store.DeletePayment(ctx, paymentID); err != nil {
		return err
	}
	l.Invalidate(ctx, tripID)
	return nil
}
