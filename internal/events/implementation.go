// internal/events/implementation.go
package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agadirhub/internal/domain"
	"agadirhub/internal/guard"
	"agadirhub/internal/stats"
	"agadirhub/internal/store"
)

// updateAttempts bounds the optimistic retry loop for field edits racing
// with attendee mutations on the same event.
const updateAttempts = 3

// service implements the Service interface.
type service struct {
	store store.Store
	guard *guard.Guard
	log   *zap.SugaredLogger
}

// NewService creates a new events service instance.
func NewService(st store.Store, g *guard.Guard, log *zap.SugaredLogger) Service {
	return &service{store: st, guard: g, log: log.With("component", "events")}
}

// Create validates and persists a new event with the actor as organizer.
func (s *service) Create(ctx context.Context, organizer *domain.User, req CreateRequest) (*domain.Event, error) {
	ev := &domain.Event{
		ID:               uuid.New(),
		Title:            req.Title,
		Description:      req.Description,
		Date:             req.Date,
		EndDate:          req.EndDate,
		Location:         req.Location,
		Coordinates:      req.Coordinates,
		Category:         req.Category,
		OrganizerID:      organizer.ID,
		Attendees:        []domain.Attendee{},
		MaxAttendees:     req.MaxAttendees,
		Price:            req.Price,
		Currency:         req.Currency,
		Images:           req.Images,
		Tags:             req.Tags,
		Status:           req.Status,
		IsPublic:         true,
		RequiresApproval: req.RequiresApproval,
		Contact:          req.Contact,
	}
	if req.Currency == "" {
		ev.Currency = "MAD"
	}
	if req.Status == "" {
		ev.Status = domain.EventPublished
	}
	if req.IsPublic != nil {
		ev.IsPublic = *req.IsPublic
	}
	if ev.MaxAttendees != nil {
		spots := *ev.MaxAttendees
		ev.AvailableSpots = &spots
	}

	if err := ev.Validate(time.Now()); err != nil {
		return nil, err
	}
	if err := s.store.InsertEvent(ctx, ev); err != nil {
		return nil, storeErr("create event", err)
	}
	return ev, nil
}

// Get returns a single event and bumps its view counter.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	ev, err := s.store.Event(ctx, id)
	if err != nil {
		return nil, storeErr("get event", err)
	}

	views, err := s.guard.IncrementCounter(ctx, guard.KindEvent, id, "views")
	if err != nil {
		s.log.Warnw("view counter increment failed", "event_id", id, "error", err)
	} else {
		ev.Counters.Views = views
	}
	return ev, nil
}

// List returns published, public events matching the request.
func (s *service) List(ctx context.Context, req ListRequest) ([]*domain.Event, int64, error) {
	filter := store.EventFilter{
		Category:     req.Category,
		Status:       domain.EventPublished,
		PublicOnly:   true,
		LocationText: req.City,
		From:         req.StartDate,
		To:           req.EndDate,
		Search:       req.Search,
	}
	sort := store.Sort{Field: req.SortBy, Descending: req.SortDesc}
	page := store.Page{Number: req.Page, Size: req.Limit}

	items, total, err := s.store.Events(ctx, filter, sort, page)
	if err != nil {
		return nil, 0, storeErr("list events", err)
	}
	return items, total, nil
}

// Update applies a partial edit. Only the organizer or an admin may edit;
// the organizer reference itself is immutable.
func (s *service) Update(ctx context.Context, actor *domain.User, id uuid.UUID, req UpdateRequest) (*domain.Event, error) {
	for attempt := 0; attempt < updateAttempts; attempt++ {
		ev, err := s.store.Event(ctx, id)
		if err != nil {
			return nil, storeErr("update event", err)
		}
		if ev.OrganizerID != actor.ID && !actor.IsAdmin() {
			return nil, domain.ErrForbidden
		}

		applyUpdate(ev, req)
		stats.ForEvent(ev.Attendees, ev.MaxAttendees).Apply(ev)
		if err := ev.Validate(time.Time{}); err != nil {
			return nil, err
		}

		err = s.store.SaveEvent(ctx, ev)
		if errors.Is(err, store.ErrRevisionMismatch) {
			continue
		}
		if err != nil {
			return nil, storeErr("update event", err)
		}
		return ev, nil
	}
	return nil, &domain.StorageError{Op: "update event", Err: fmt.Errorf("gave up after %d revision conflicts", updateAttempts)}
}

// Delete removes the event document. Permitted to the organizer or an admin.
func (s *service) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	ev, err := s.store.Event(ctx, id)
	if err != nil {
		return storeErr("delete event", err)
	}
	if ev.OrganizerID != actor.ID && !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return storeErr("delete event", err)
	}
	return nil
}

// Join registers the user through the guard.
func (s *service) Join(ctx context.Context, eventID, userID uuid.UUID) (int, error) {
	return s.guard.JoinEvent(ctx, eventID, userID)
}

// Leave removes the user's registration through the guard.
func (s *service) Leave(ctx context.Context, eventID, userID uuid.UUID) (int, error) {
	return s.guard.LeaveEvent(ctx, eventID, userID)
}

func applyUpdate(ev *domain.Event, req UpdateRequest) {
	if req.Title != nil {
		ev.Title = *req.Title
	}
	if req.Description != nil {
		ev.Description = *req.Description
	}
	if req.Date != nil {
		ev.Date = *req.Date
	}
	if req.EndDate != nil {
		ev.EndDate = req.EndDate
	}
	if req.Location != nil {
		ev.Location = *req.Location
	}
	if req.Coordinates != nil {
		ev.Coordinates = req.Coordinates
	}
	if req.Category != nil {
		ev.Category = *req.Category
	}
	if req.MaxAttendees != nil {
		ev.MaxAttendees = req.MaxAttendees
	}
	if req.Price != nil {
		ev.Price = *req.Price
	}
	if req.Currency != nil {
		ev.Currency = *req.Currency
	}
	if req.Tags != nil {
		ev.Tags = req.Tags
	}
	if req.Status != nil {
		ev.Status = *req.Status
	}
	if req.IsPublic != nil {
		ev.IsPublic = *req.IsPublic
	}
}

// storeErr passes domain outcomes through and wraps unexpected store
// failures as StorageError.
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
