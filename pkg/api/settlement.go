package api

// Balance is a member's derived position in a trip. Positive means the
// member is owed money.
type Balance struct {
	MemberID   string `json:"memberId"`
	Name       string `json:"name"`
	NetBalance string `json:"netBalance"`
	TotalPaid  string `json:"totalPaid"`
	TotalOwed  string `json:"totalOwed"`
}

// Settlement is a transfer between two members. Suggested transfers have
// IsSettled false; recorded payments have IsSettled true and a SettledAt time.
type Settlement struct {
	ID         string `json:"id"`
	TripID     string `json:"tripId"`
	FromMember string `json:"fromMember"`
	FromName   string `json:"fromName,omitempty"`
	ToMember   string `json:"toMember"`
	ToName     string `json:"toName,omitempty"`
	Amount     string `json:"amount"`
	IsSettled  bool   `json:"isSettled"`
	SettledAt  int64  `json:"settledAt,omitempty"`
}

type GetBalancesRequest struct {
	TripID string `json:"tripId" validate:"required"`
}

type GetBalancesResponse struct {
	Balances []*Balance `json:"balances"`
}

type ListSettlementsRequest struct {
	TripID string `json:"tripId" validate:"required"`
}

type ListSettlementsResponse struct {
	// Suggested are the transfers that would settle all current balances.
	Suggested []*Settlement `json:"suggested"`
	// Recorded are payments already marked as settled.
	Recorded []*Settlement `json:"recorded"`
}

type MarkSettledRequest struct {
	TripID     string `json:"tripId" validate:"required"`
	FromMember string `json:"fromMember" validate:"required"`
	ToMember   string `json:"toMember" validate:"required,nefield=FromMember"`
	Amount     string `json:"amount" validate:"required,money"`
}

type MarkSettledResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type UndoSettlementRequest struct {
	TripID       string `json:"tripId" validate:"required"`
	SettlementID string `json:"settlementId" validate:"required"`
}

type UndoSettlementResponse struct{}
