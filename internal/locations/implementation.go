// internal/locations/implementation.go
package locations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agadirhub/internal/domain"
	"agadirhub/internal/guard"
	"agadirhub/internal/store"
)

const updateAttempts = 3

// service implements the Service interface.
type service struct {
	store store.Store
	guard *guard.Guard
	log   *zap.SugaredLogger
}

// NewService creates a new locations service instance.
func NewService(st store.Store, g *guard.Guard, log *zap.SugaredLogger) Service {
	return &service{store: st, guard: g, log: log.With("component", "locations")}
}

// Create validates and persists a new location.
func (s *service) Create(ctx context.Context, req CreateRequest) (*domain.Location, error) {
	loc := &domain.Location{
		ID:           uuid.New(),
		Name:         req.Name,
		Description:  req.Description,
		Type:         req.Type,
		Coordinates:  req.Coordinates,
		Address:      req.Address,
		Contact:      req.Contact,
		Hours:        req.Hours,
		Amenities:    req.Amenities,
		Images:       req.Images,
		Reviews:      []domain.Review{},
		IsActive:     true,
		IsVerified:   req.IsVerified,
		WorldCup2030: req.WorldCup2030,
	}
	if loc.Address.City == "" {
		loc.Address.City = "Agadir"
	}
	if loc.Address.Country == "" {
		loc.Address.Country = "Morocco"
	}

	if err := loc.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.InsertLocation(ctx, loc); err != nil {
		return nil, storeErr("create location", err)
	}
	return loc, nil
}

// Get returns a single active location and bumps its view counter.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	loc, err := s.store.Location(ctx, id)
	if err != nil {
		return nil, storeErr("get location", err)
	}
	if !loc.IsActive {
		return nil, domain.ErrNotFound
	}

	views, err := s.guard.IncrementCounter(ctx, guard.KindLocation, id, "views")
	if err != nil {
		s.log.Warnw("view counter increment failed", "location_id", id, "error", err)
	} else {
		loc.Counters.Views = views
	}
	return loc, nil
}

// List returns active locations matching the request.
func (s *service) List(ctx context.Context, req ListRequest) ([]*domain.Location, int64, error) {
	filter := store.LocationFilter{
		Type:       req.Type,
		ActiveOnly: true,
		Search:     req.Search,
		VenuesOnly: req.VenuesOnly,
	}
	if req.RadiusKm > 0 {
		filter.Geo = &store.GeoFilter{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			RadiusKm:  req.RadiusKm,
		}
	}
	sort := store.Sort{Field: req.SortBy, Descending: req.SortDesc}
	page := store.Page{Number: req.Page, Size: req.Limit}

	items, total, err := s.store.Locations(ctx, filter, sort, page)
	if err != nil {
		return nil, 0, storeErr("list locations", err)
	}
	return items, total, nil
}

// Update applies a partial edit, retrying on revision conflicts with
// concurrent review submissions.
func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*domain.Location, error) {
	for attempt := 0; attempt < updateAttempts; attempt++ {
		loc, err := s.store.Location(ctx, id)
		if err != nil {
			return nil, storeErr("update location", err)
		}

		applyUpdate(loc, req)
		if err := loc.Validate(); err != nil {
			return nil, err
		}

		err = s.store.SaveLocation(ctx, loc)
		if errors.Is(err, store.ErrRevisionMismatch) {
			continue
		}
		if err != nil {
			return nil, storeErr("update location", err)
		}
		return loc, nil
	}
	return nil, &domain.StorageError{Op: "update location", Err: fmt.Errorf("gave up after %d revision conflicts", updateAttempts)}
}

// Deactivate soft-deletes a location. Its document and reviews survive,
// but it stops appearing in listings and lookups.
func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	inactive := false
	_, err := s.Update(ctx, id, UpdateRequest{IsActive: &inactive})
	return err
}

// AddReview records the user's review through the guard.
func (s *service) AddReview(ctx context.Context, locationID, userID uuid.UUID, req ReviewRequest) (domain.Rating, error) {
	return s.guard.AddReview(ctx, locationID, userID, req.Rating, req.Comment)
}

// Checkin bumps the location's check-in counter.
func (s *service) Checkin(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.guard.IncrementCounter(ctx, guard.KindLocation, id, "checkins")
}

// TypeCounts returns how many locations exist per type.
func (s *service) TypeCounts(ctx context.Context) ([]store.GroupCount, error) {
	counts, err := s.store.LocationsByType(ctx)
	if err != nil {
		return nil, storeErr("count location types", err)
	}
	return counts, nil
}

func applyUpdate(loc *domain.Location, req UpdateRequest) {
	if req.Name != nil {
		loc.Name = *req.Name
	}
	if req.Description != nil {
		loc.Description = *req.Description
	}
	if req.Type != nil {
		loc.Type = *req.Type
	}
	if req.Coordinates != nil {
		loc.Coordinates = *req.Coordinates
	}
	if req.Address != nil {
		loc.Address = *req.Address
	}
	if req.Contact != nil {
		loc.Contact = *req.Contact
	}
	if req.Hours != nil {
		loc.Hours = *req.Hours
	}
	if req.Amenities != nil {
		loc.Amenities = req.Amenities
	}
	if req.IsVerified != nil {
		loc.IsVerified = *req.IsVerified
	}
	if req.IsActive != nil {
		loc.IsActive = *req.IsActive
	}
	if req.WorldCup2030 != nil {
		loc.WorldCup2030 = *req.WorldCup2030
	}
}

func storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrForbidden) {
		return err
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return err
	}
	return &domain.StorageError{Op: op, Err: err}
}
