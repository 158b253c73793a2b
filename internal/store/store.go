// internal/store/store.go

// Package store provides durable storage and retrieval of aggregates. Each
// aggregate is persisted as a single document; saves replace the whole
// document and are guarded by a revision counter so that concurrent writers
// never see each other's intermediate state.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"agadirhub/internal/domain"
)

// ErrRevisionMismatch is returned by Save operations when another writer
// committed first. Callers re-read and retry.
var ErrRevisionMismatch = errors.New("revision mismatch")

// Page selects a window of a listing. Numbering starts at 1.
type Page struct {
	Number int
	Size   int
}

// Skip returns the number of documents preceding the page.
func (p Page) Skip() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Sort orders a listing by a single field.
type Sort struct {
	Field      string
	Descending bool
}

// EventFilter narrows event listings. Zero values match everything.
type EventFilter struct {
	Category     string
	Status       string
	PublicOnly   bool
	LocationText string
	From         *time.Time
	To           *time.Time
	Search       string
	OrganizerID  *uuid.UUID
	AttendeeID   *uuid.UUID
	CreatedAfter *time.Time
	JoinedAfter  *time.Time
}

// GeoFilter selects locations within radiusKm of a point, approximated as a
// bounding box using the degrees-per-kilometre conversion.
type GeoFilter struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

// LocationFilter narrows location listings. Zero values match everything.
type LocationFilter struct {
	Type       string
	ActiveOnly bool
	Search     string
	Geo        *GeoFilter
	VenuesOnly bool
}

// GroupCount is one bucket of a grouped count aggregation.
type GroupCount struct {
	Key   string `bson:"_id" json:"key"`
	Count int64  `bson:"count" json:"count"`
}

// Store is the persistence contract for all three aggregate kinds. Save
// methods are atomic per document: either the replacement is fully visible
// or the previous document is, never a partial write.
type Store interface {
	InsertEvent(ctx context.Context, e *domain.Event) error
	Event(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	Events(ctx context.Context, f EventFilter, sort Sort, page Page) ([]*domain.Event, int64, error)
	SaveEvent(ctx context.Context, e *domain.Event) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	CountEvents(ctx context.Context, f EventFilter) (int64, error)
	EventsByCategory(ctx context.Context) ([]GroupCount, error)
	IncrementEventCounter(ctx context.Context, id uuid.UUID, counter string) (int64, error)

	InsertLocation(ctx context.Context, l *domain.Location) error
	Location(ctx context.Context, id uuid.UUID) (*domain.Location, error)
	Locations(ctx context.Context, f LocationFilter, sort Sort, page Page) ([]*domain.Location, int64, error)
	SaveLocation(ctx context.Context, l *domain.Location) error
	DeleteLocation(ctx context.Context, id uuid.UUID) error
	CountLocations(ctx context.Context, f LocationFilter) (int64, error)
	LocationsByType(ctx context.Context) ([]GroupCount, error)
	IncrementLocationCounter(ctx context.Context, id uuid.UUID, counter string) (int64, error)

	InsertUser(ctx context.Context, u *domain.User) error
	User(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	SaveUser(ctx context.Context, u *domain.User) error
	CountUsers(ctx context.Context, activeOnly bool) (int64, error)
}
