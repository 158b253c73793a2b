// internal/dashboard/implementation.go
package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agadirhub/internal/domain"
	"agadirhub/internal/store"
)

// nextEventsLimit bounds the upcoming-events strip on the overview.
const nextEventsLimit = 5

// service implements the Service interface.
type service struct {
	store store.Store
	now   Clock
	log   *zap.SugaredLogger
}

// NewService creates a new dashboard service instance.
func NewService(st store.Store, log *zap.SugaredLogger) Service {
	return &service{store: st, now: time.Now, log: log.With("component", "dashboard")}
}

// Overview assembles the public city dashboard.
func (s *service) Overview(ctx context.Context) (*Overview, error) {
	now := s.now()

	activeUsers, err := s.store.CountUsers(ctx, true)
	if err != nil {
		return nil, storeErr("dashboard overview", err)
	}

	published := store.EventFilter{Status: domain.EventPublished, PublicOnly: true}
	publishedCount, err := s.store.CountEvents(ctx, published)
	if err != nil {
		return nil, storeErr("dashboard overview", err)
	}

	upcoming := published
	upcoming.From = &now
	upcomingCount, err := s.store.CountEvents(ctx, upcoming)
	if err != nil {
		return nil, storeErr("dashboard overview", err)
	}

	activeLocations, err := s.store.CountLocations(ctx, store.LocationFilter{ActiveOnly: true})
	if err != nil {
		return nil, storeErr("dashboard overview", err)
	}

	byCategory, err := s.store.EventsByCategory(ctx)
	if err != nil {
		return nil, storeErr("dashboard overview", err)
	}
	byType, err := s.store.LocationsByType(ctx)
	if err != nil {
		return nil, storeErr("dashboard overview", err)
	}

	next, _, err := s.store.Events(ctx, upcoming,
		store.Sort{Field: "date"},
		store.Page{Number: 1, Size: nextEventsLimit})
	if err != nil {
		return nil, storeErr("dashboard overview", err)
	}

	venues, err := s.store.CountLocations(ctx, store.LocationFilter{ActiveOnly: true, VenuesOnly: true})
	if err != nil {
		return nil, storeErr("dashboard overview", err)
	}

	return &Overview{
		ActiveUsers:      activeUsers,
		PublishedEvents:  publishedCount,
		UpcomingEvents:   upcomingCount,
		ActiveLocations:  activeLocations,
		EventsByCategory: byCategory,
		LocationsByType:  byType,
		NextEvents:       next,
		WorldCup:         readiness(venues),
	}, nil
}

// Activity assembles the authenticated user's involvement summary.
func (s *service) Activity(ctx context.Context, userID uuid.UUID) (*Activity, error) {
	monthAgo := s.now().AddDate(0, 0, -30)

	organized, err := s.store.CountEvents(ctx, store.EventFilter{OrganizerID: &userID})
	if err != nil {
		return nil, storeErr("dashboard activity", err)
	}
	attending, err := s.store.CountEvents(ctx, store.EventFilter{AttendeeID: &userID})
	if err != nil {
		return nil, storeErr("dashboard activity", err)
	}
	created, err := s.store.CountEvents(ctx, store.EventFilter{OrganizerID: &userID, CreatedAfter: &monthAgo})
	if err != nil {
		return nil, storeErr("dashboard activity", err)
	}
	joined, err := s.store.CountEvents(ctx, store.EventFilter{AttendeeID: &userID, JoinedAfter: &monthAgo})
	if err != nil {
		return nil, storeErr("dashboard activity", err)
	}

	return &Activity{
		OrganizedCount: organized,
		AttendingCount: attending,
		CreatedLast30d: created,
		JoinedLast30d:  joined,
	}, nil
}

// readiness scores venue preparation as venues out of five, capped at 100.
func readiness(venues int64) WorldCupReadiness {
	score := venues * 100 / 5
	if score > 100 {
		score = 100
	}
	return WorldCupReadiness{VenueCount: venues, ReadinessScore: score}
}

func storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return &domain.StorageError{Op: op, Err: err}
}
