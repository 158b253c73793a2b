// internal/events/service.go
package events

import (
	"context"

	"github.com/google/uuid"

	"agadirhub/internal/domain"
)

// Service defines the interface for the events service.
type Service interface {
	Create(ctx context.Context, organizer *domain.User, req CreateRequest) (*domain.Event, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	List(ctx context.Context, req ListRequest) ([]*domain.Event, int64, error)
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, req UpdateRequest) (*domain.Event, error)
	Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error
	Join(ctx context.Context, eventID, userID uuid.UUID) (int, error)
	Leave(ctx context.Context, eventID, userID uuid.UUID) (int, error)
}
