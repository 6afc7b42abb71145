package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/money"
)

// Split methods understood by BuildSplits.
const (
	MethodEqual  = "equal"
	MethodCustom = "custom"
)

// BuildSplits computes the shares of a new or edited expense.
//
// Equal splits divide the total among participants with residue cents going to
// the first participants in the given order. Custom splits must add up to the
// total exactly in cents; the tolerance accepted by ComputeBalances is only for
// legacy data and is not granted here.
func BuildSplits(method string, total decimal.Decimal, participants []string, custom []Share) ([]Share, error) {
	switch method {
	case "", MethodEqual:
		return EqualSplit(total, participants)
	case MethodCustom:
		return CustomSplit(total, custom)
	}
	return nil, fmt.Errorf("unknown split method %q", method)
}

// EqualSplit divides total equally among participants.
func EqualSplit(total decimal.Decimal, participants []string) ([]Share, error) {
	if !total.IsPositive() {
		return nil, splitError("", "amount %s must be positive", total)
	}
	if len(participants) == 0 {
		return nil, splitError("", "must have at least one participant")
	}
	if err := checkUnique(participants); err != nil {
		return nil, err
	}

	amounts, err := money.EqualShares(total, len(participants))
	if err != nil {
		return nil, splitError("", "%v", err)
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{MemberID: p, Amount: amounts[i]}
	}
	return shares, nil
}

// CustomSplit validates explicit per-member amounts against total.
func CustomSplit(total decimal.Decimal, custom []Share) ([]Share, error) {
	if !total.IsPositive() {
		return nil, splitError("", "amount %s must be positive", total)
	}
	if len(custom) == 0 {
		return nil, splitError("", "must have at least one participant")
	}

	ids := make([]string, len(custom))
	sum := decimal.Zero
	shares := make([]Share, len(custom))
	for i, s := range custom {
		ids[i] = s.MemberID
		if s.Amount.IsNegative() {
			return nil, splitError("", "negative share %s for member %s", s.Amount, s.MemberID)
		}
		if !s.Amount.Equal(money.Round(s.Amount)) {
			return nil, splitError("", "share %s for member %s has sub-cent precision", s.Amount, s.MemberID)
		}
		sum = sum.Add(s.Amount)
		shares[i] = Share{MemberID: s.MemberID, Amount: s.Amount}
	}
	if err := checkUnique(ids); err != nil {
		return nil, err
	}

	if !sum.Equal(money.Round(total)) {
		return nil, splitError("", "custom shares sum to %s, amount is %s", money.Format(sum), money.Format(total))
	}
	return shares, nil
}

func checkUnique(ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			return splitError("", "participant without member id")
		}
		if seen[id] {
			return splitError("", "member %s appears more than once", id)
		}
		seen[id] = true
	}
	return nil
}
