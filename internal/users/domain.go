// internal/users/domain.go
package users

import (
	"agadirhub/internal/domain"
)

// RegisterRequest carries the fields for account creation.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
	City      string `json:"city,omitempty"`
}

// LoginRequest carries a credential pair.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries a partial profile edit; nil fields are
// left unchanged. Email changes are checked for uniqueness.
type UpdateProfileRequest struct {
	FirstName   *string             `json:"firstName,omitempty"`
	LastName    *string             `json:"lastName,omitempty"`
	Email       *string             `json:"email,omitempty"`
	Phone       *string             `json:"phone,omitempty"`
	Address     *string             `json:"address,omitempty"`
	City        *string             `json:"city,omitempty"`
	Bio         *string             `json:"bio,omitempty"`
	Avatar      *string             `json:"avatar,omitempty"`
	Preferences *domain.Preferences `json:"preferences,omitempty"`
}

// ChangePasswordRequest carries a password rotation.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Stats is the account summary exposed to administrators.
type Stats struct {
	TotalUsers  int64 `json:"totalUsers"`
	ActiveUsers int64 `json:"activeUsers"`
}
