// internal/dashboard/service.go

// Package dashboard aggregates read-only overview figures from the three
// aggregate collections. Nothing here writes.
package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agadirhub/internal/domain"
	"agadirhub/internal/store"
)

// Overview is the public city dashboard payload.
type Overview struct {
	ActiveUsers      int64              `json:"activeUsers"`
	PublishedEvents  int64              `json:"publishedEvents"`
	UpcomingEvents   int64              `json:"upcomingEvents"`
	ActiveLocations  int64              `json:"activeLocations"`
	EventsByCategory []store.GroupCount `json:"eventsByCategory"`
	LocationsByType  []store.GroupCount `json:"locationsByType"`
	NextEvents       []*domain.Event    `json:"nextEvents"`
	WorldCup         WorldCupReadiness  `json:"worldCup2030"`
}

// WorldCupReadiness summarises 2030 venue preparation.
type WorldCupReadiness struct {
	VenueCount     int64 `json:"venueCount"`
	ReadinessScore int64 `json:"readinessScore"`
}

// Activity is the per-user activity payload.
type Activity struct {
	OrganizedCount int64 `json:"organizedCount"`
	AttendingCount int64 `json:"attendingCount"`
	CreatedLast30d int64 `json:"createdLast30Days"`
	JoinedLast30d  int64 `json:"joinedLast30Days"`
}

// Service defines the interface for the dashboard service.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
	Activity(ctx context.Context, userID uuid.UUID) (*Activity, error)
}

// Clock returns the current time; swapped in tests.
type Clock func() time.Time
