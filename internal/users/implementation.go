// internal/users/implementation.go
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agadirhub/internal/auth"
	"agadirhub/internal/domain"
	"agadirhub/internal/store"
)

const updateAttempts = 3

// service implements the Service interface.
type service struct {
	store store.Store
	log   *zap.SugaredLogger
}

// NewService creates a new users service instance.
func NewService(st store.Store, log *zap.SugaredLogger) Service {
	return &service{store: st, log: log.With("component", "users")}
}

// Register creates a new account with a salted Argon2id credential.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if len(req.Password) < 6 {
		return nil, domain.NewValidationError("password: must be at least 6 characters")
	}

	hash, salt, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Salt:         salt,
		Phone:        req.Phone,
		City:         req.City,
		Role:         domain.RoleUser,
		IsActive:     true,
		Preferences:  domain.DefaultPreferences(),
	}
	if u.City == "" {
		u.City = "Agadir"
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.InsertUser(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewValidationError("email: already registered")
		}
		return nil, storeErr("register user", err)
	}

	s.log.Infow("user registered", "user_id", u.ID, "email", u.Email)
	return u, nil
}

// Login verifies the credential pair and records the login. An unknown
// email, a wrong password, and a deactivated account are indistinguishable
// to the caller.
func (s *service) Login(ctx context.Context, req LoginRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeErr("login", err)
	}
	if !u.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(req.Password, u.Salt, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	u.LastLogin = &now
	u.LoginCount++
	if err := s.store.SaveUser(ctx, u); err != nil {
		s.log.Warnw("login bookkeeping failed", "user_id", u.ID, "error", err)
	}

	return u, nil
}

// Profile returns the account document.
func (s *service) Profile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.store.User(ctx, id)
	if err != nil {
		return nil, storeErr("get profile", err)
	}
	return u, nil
}

// UpdateProfile applies a partial edit. An email change is rejected when
// another account already holds the address.
func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*domain.User, error) {
	for attempt := 0; attempt < updateAttempts; attempt++ {
		u, err := s.store.User(ctx, id)
		if err != nil {
			return nil, storeErr("update profile", err)
		}

		if req.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*req.Email))
			if email != u.Email {
				other, err := s.store.UserByEmail(ctx, email)
				if err == nil && other.ID != u.ID {
					return nil, domain.NewValidationError("email: already registered")
				}
				if err != nil && !errors.Is(err, domain.ErrNotFound) {
					return nil, storeErr("update profile", err)
				}
				u.Email = email
			}
		}
		applyProfileUpdate(u, req)
		if err := u.Validate(); err != nil {
			return nil, err
		}

		err = s.store.SaveUser(ctx, u)
		if errors.Is(err, store.ErrRevisionMismatch) {
			continue
		}
		if err != nil {
			return nil, storeErr("update profile", err)
		}
		return u, nil
	}
	return nil, &domain.StorageError{Op: "update profile", Err: fmt.Errorf("gave up after %d revision conflicts", updateAttempts)}
}

// ChangePassword rotates the credential after verifying the current one.
func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, req ChangePasswordRequest) error {
	if len(req.NewPassword) < 6 {
		return domain.NewValidationError("newPassword: must be at least 6 characters")
	}

	u, err := s.store.User(ctx, id)
	if err != nil {
		return storeErr("change password", err)
	}

	ok, err := auth.VerifyPassword(req.CurrentPassword, u.Salt, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}

	hash, salt, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	u.Salt = salt

	if err := s.store.SaveUser(ctx, u); err != nil {
		return storeErr("change password", err)
	}
	return nil
}

// DeactivateAccount soft-deletes the account by clearing the active flag.
// The record is kept so organizer references and reviews stay resolvable,
// and the auth middleware stops accepting the user's tokens.
func (s *service) DeactivateAccount(ctx context.Context, id uuid.UUID) error {
	u, err := s.store.User(ctx, id)
	if err != nil {
		return storeErr("deactivate account", err)
	}
	if !u.IsActive {
		return nil
	}

	u.IsActive = false
	if err := s.store.SaveUser(ctx, u); err != nil {
		return storeErr("deactivate account", err)
	}
	return nil
}

// Stats returns account totals.
func (s *service) Stats(ctx context.Context) (Stats, error) {
	total, err := s.store.CountUsers(ctx, false)
	if err != nil {
		return Stats{}, storeErr("count users", err)
	}
	active, err := s.store.CountUsers(ctx, true)
	if err != nil {
		return Stats{}, storeErr("count users", err)
	}
	return Stats{TotalUsers: total, ActiveUsers: active}, nil
}

func applyProfileUpdate(u *domain.User, req UpdateProfileRequest) {
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Address != nil {
		u.Address = *req.Address
	}
	if req.City != nil {
		u.City = *req.City
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Avatar != nil {
		u.Avatar = *req.Avatar
	}
	if req.Preferences != nil {
		u.Preferences = *req.Preferences
	}
}

func storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrInvalidCredentials) {
		return err
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return err
	}
	return &domain.StorageError{Op: op, Err: err}
}
