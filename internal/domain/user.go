// internal/domain/user.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// Preferences are per-user client preferences.
type Preferences struct {
	Language      string `bson:"language" json:"language" validate:"omitempty,oneof=en ar fr"`
	Notifications bool   `bson:"notifications" json:"notifications"`
	EmailUpdates  bool   `bson:"email_updates" json:"emailUpdates"`
	DarkMode      bool   `bson:"dark_mode" json:"darkMode"`
}

// DefaultPreferences returns the preferences applied to new accounts.
func DefaultPreferences() Preferences {
	return Preferences{Language: "en", Notifications: true, EmailUpdates: true}
}

// User is an aggregate root. Credentials never leave this package's
// serialized form: the hash and salt are excluded from JSON.
type User struct {
	ID              uuid.UUID   `bson:"_id" json:"id"`
	FirstName       string      `bson:"first_name" json:"firstName" validate:"required,max=50"`
	LastName        string      `bson:"last_name" json:"lastName" validate:"required,max=50"`
	Email           string      `bson:"email" json:"email" validate:"required,email"`
	PasswordHash    string      `bson:"password_hash" json:"-"`
	Salt            string      `bson:"salt" json:"-"`
	Phone           string      `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,moroccan_phone"`
	Address         string      `bson:"address,omitempty" json:"address,omitempty" validate:"max=200"`
	City            string      `bson:"city" json:"city" validate:"oneof=Agadir Casablanca Rabat Marrakech Fes Tangier Meknes Oujda"`
	Bio             string      `bson:"bio,omitempty" json:"bio,omitempty" validate:"max=500"`
	Avatar          string      `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Role            string      `bson:"role" json:"role" validate:"oneof=user admin moderator"`
	IsActive        bool        `bson:"is_active" json:"isActive"`
	IsEmailVerified bool        `bson:"is_email_verified" json:"isEmailVerified"`
	Preferences     Preferences `bson:"preferences" json:"preferences"`
	LastLogin       *time.Time  `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	LoginCount      int64       `bson:"login_count" json:"loginCount"`

	Revision  int64     `bson:"revision" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// FullName joins the first and last name for display.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Validate checks all field constraints, returning a ValidationError that
// enumerates every violation.
func (u *User) Validate() error {
	if violations := structViolations(u); len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
