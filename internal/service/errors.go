package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/money"
	"github.com/mmynk/tripsplit/internal/storage"
)

var (
	errNotTripMember = errors.New("you are not a member of this trip")
	errNotTripOwner  = errors.New("only the trip owner can do this")
)

// toConnectError maps domain errors to Connect codes. Errors that already
// carry a code pass through unchanged.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	return connect.NewError(codeOf(err), err)
}

func codeOf(err error) connect.Code {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, storage.ErrInUse):
		return connect.CodeFailedPrecondition
	case errors.Is(err, storage.ErrConflict), errors.Is(err, auth.ErrUsernameTaken):
		return connect.CodeAlreadyExists
	case errors.Is(err, calculator.ErrSplitIntegrity),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrNoShares),
		errors.Is(err, ledger.ErrInvalidPayment),
		errors.Is(err, auth.ErrWeakPassword):
		return connect.CodeInvalidArgument
	case errors.Is(err, calculator.ErrImbalanced):
		return connect.CodeDataLoss
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		return connect.CodeUnauthenticated
	case errors.Is(err, errNotTripMember), errors.Is(err, errNotTripOwner):
		return connect.CodePermissionDenied
	}
	return connect.CodeInternal
}

// ledgerError maps a failure to derive balances. Split integrity problems
// found in stored expenses mean the log is corrupt, not that the caller sent
// bad input.
func ledgerError(err error) error {
	if errors.Is(err, calculator.ErrSplitIntegrity) {
		return connect.NewError(connect.CodeDataLoss, err)
	}
	return toConnectError(err)
}
