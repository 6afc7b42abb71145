package api

// Trip is a shared journey and its members.
type Trip struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Destination string    `json:"destination,omitempty"`
	StartDate   string    `json:"startDate,omitempty"`
	EndDate     string    `json:"endDate,omitempty"`
	Budget      string    `json:"budget"`
	CoverImage  string    `json:"coverImage,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   int64     `json:"createdAt"`
	Members     []*Member `json:"members,omitempty"`
}

// Member is one participant of a trip. Balance is derived from the trip's
// expenses and payments and is only filled in by GetTrip.
type Member struct {
	ID      string `json:"id"`
	TripID  string `json:"tripId"`
	UserID  string `json:"userId,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
	IsOwner bool   `json:"isOwner"`
	Balance string `json:"balance,omitempty"`
}

type CreateTripRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Destination string `json:"destination,omitempty" validate:"max=120"`
	StartDate   string `json:"startDate,omitempty" validate:"omitempty,isodate"`
	EndDate     string `json:"endDate,omitempty" validate:"omitempty,isodate"`
	Budget      string `json:"budget,omitempty" validate:"omitempty,money"`
	CoverImage  string `json:"coverImage,omitempty" validate:"omitempty,url"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	// OwnerName is the display name of the owner member. Defaults to the username.
	OwnerName string `json:"ownerName,omitempty" validate:"max=80"`
}

type CreateTripResponse struct {
	Trip *Trip `json:"trip"`
}

type GetTripRequest struct {
	TripID string `json:"tripId" validate:"required"`
}

type GetTripResponse struct {
	Trip *Trip `json:"trip"`
}

type ListTripsRequest struct{}

type ListTripsResponse struct {
	Trips []*Trip `json:"trips"`
}

// UpdateTripRequest replaces the editable fields of a trip.
type UpdateTripRequest struct {
	TripID      string `json:"tripId" validate:"required"`
	Name        string `json:"name" validate:"required,max=120"`
	Destination string `json:"destination,omitempty" validate:"max=120"`
	StartDate   string `json:"startDate,omitempty" validate:"omitempty,isodate"`
	EndDate     string `json:"endDate,omitempty" validate:"omitempty,isodate"`
	Budget      string `json:"budget,omitempty" validate:"omitempty,money"`
	CoverImage  string `json:"coverImage,omitempty" validate:"omitempty,url"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

type UpdateTripResponse struct {
	Trip *Trip `json:"trip"`
}

type DeleteTripRequest struct {
	TripID string `json:"tripId" validate:"required"`
}

type DeleteTripResponse struct{}

// AddMemberRequest adds a member to a trip. When Username is set the member
// is linked to that account and the trip shows up in its trip list.
type AddMemberRequest struct {
	TripID   string `json:"tripId" validate:"required"`
	Name     string `json:"name" validate:"required,max=80"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Avatar   string `json:"avatar,omitempty" validate:"omitempty,url"`
	Username string `json:"username,omitempty"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

type UpdateMemberRequest struct {
	MemberID string `json:"memberId" validate:"required"`
	Name     string `json:"name" validate:"required,max=80"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Avatar   string `json:"avatar,omitempty" validate:"omitempty,url"`
}

type UpdateMemberResponse struct {
	Member *Member `json:"member"`
}

type RemoveMemberRequest struct {
	MemberID string `json:"memberId" validate:"required"`
}

type RemoveMemberResponse struct{}

type GetTripSummaryRequest struct {
	TripID string `json:"tripId" validate:"required"`
}

// CategorySpend is the amount spent in one category.
type CategorySpend struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

// BudgetSummary compares spending with the trip budget.
type BudgetSummary struct {
	Budget      string           `json:"budget"`
	Spent       string           `json:"spent"`
	Remaining   string           `json:"remaining"`
	PercentUsed string           `json:"percentUsed"`
	OverBudget  bool             `json:"overBudget"`
	NearBudget  bool             `json:"nearBudget"`
	ByCategory  []*CategorySpend `json:"byCategory"`
}

type GetTripSummaryResponse struct {
	Summary *BudgetSummary `json:"summary"`
}
