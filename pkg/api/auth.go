package api

// User is the public view of a registered account.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// UpdateProfileRequest changes the caller's profile. Empty fields are left
// unchanged. Changing the password requires the current one.
type UpdateProfileRequest struct {
	Username        string `json:"username,omitempty" validate:"omitempty,min=3,max=32,alphanum"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	Avatar          string `json:"avatar,omitempty" validate:"omitempty,url"`
	CurrentPassword string `json:"currentPassword,omitempty" validate:"required_with=NewPassword"`
	NewPassword     string `json:"newPassword,omitempty" validate:"omitempty,min=8,max=72"`
}

type UpdateProfileResponse struct {
	User *User `json:"user"`
}

// DeleteAccountRequest removes the caller's account and every trip they own.
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

type DeleteAccountResponse struct{}
