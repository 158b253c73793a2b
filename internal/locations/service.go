// internal/locations/service.go
package locations

import (
	"context"

	"github.com/google/uuid"

	"agadirhub/internal/domain"
	"agadirhub/internal/store"
)

// Service defines the interface for the locations service.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*domain.Location, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Location, error)
	List(ctx context.Context, req ListRequest) ([]*domain.Location, int64, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*domain.Location, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	AddReview(ctx context.Context, locationID, userID uuid.UUID, req ReviewRequest) (domain.Rating, error)
	Checkin(ctx context.Context, id uuid.UUID) (int64, error)
	TypeCounts(ctx context.Context) ([]store.GroupCount, error)
}
