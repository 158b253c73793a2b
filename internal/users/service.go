// internal/users/service.go
package users

import (
	"context"

	"github.com/google/uuid"

	"agadirhub/internal/domain"
)

// Service defines the interface for the users service.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req LoginRequest) (*domain.User, error)
	Profile(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*domain.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, req ChangePasswordRequest) error
	DeactivateAccount(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (Stats, error)
}
