package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/tripsplit/internal/money"
)

var (
	// ErrSplitIntegrity marks an expense whose splits do not add up to its amount
	// or are otherwise malformed.
	ErrSplitIntegrity = errors.New("split integrity violation")

	// ErrImbalanced marks balances that do not sum to zero within tolerance.
	ErrImbalanced = errors.New("balances do not sum to zero")
)

// SplitIntegrityError describes a rejected expense.
type SplitIntegrityError struct {
	ExpenseID string
	Reason    string
}

func (e *SplitIntegrityError) Error() string {
	if e.ExpenseID == "" {
		return fmt.Sprintf("%s: %s", ErrSplitIntegrity, e.Reason)
	}
	return fmt.Sprintf("%s: expense %s: %s", ErrSplitIntegrity, e.ExpenseID, e.Reason)
}

func (e *SplitIntegrityError) Unwrap() error {
	return ErrSplitIntegrity
}

func splitError(expenseID, format string, args ...any) error {
	return &SplitIntegrityError{ExpenseID: expenseID, Reason: fmt.Sprintf(format, args...)}
}

// ResidualError reports balances left unresolved after settlement reduction.
type ResidualError struct {
	Residual []MemberBalance
}

func (e *ResidualError) Error() string {
	parts := make([]string, len(e.Residual))
	for i, r := range e.Residual {
		parts[i] = fmt.Sprintf("%s=%s", r.MemberID, money.Format(r.NetBalance))
	}
	return fmt.Sprintf("%s: unresolved %s", ErrImbalanced, strings.Join(parts, ", "))
}

func (e *ResidualError) Unwrap() error {
	return ErrImbalanced
}
