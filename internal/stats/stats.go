// internal/stats/stats.go

// Package stats computes the derived summary fields of an aggregate from its
// embedded collection. Every function is pure and deterministic; the guard
// calls them after each successful mutation and persists the result.
package stats

import (
	"math"

	"agadirhub/internal/domain"
)

// EventStats is the derived view of an event's attendee list.
type EventStats struct {
	AttendeeCount  int
	AvailableSpots *int
	IsFull         bool
}

// ForEvent derives attendee statistics. Only entries in the registered
// state count towards capacity; a nil maxAttendees means unlimited.
func ForEvent(attendees []domain.Attendee, maxAttendees *int) EventStats {
	count := 0
	for _, a := range attendees {
		if a.Status == domain.AttendeeRegistered {
			count++
		}
	}

	s := EventStats{AttendeeCount: count}
	if maxAttendees != nil {
		spots := *maxAttendees - count
		s.AvailableSpots = &spots
		s.IsFull = count >= *maxAttendees
	}
	return s
}

// Apply writes the derived fields back onto the event.
func (s EventStats) Apply(e *domain.Event) {
	e.AttendeeCount = s.AttendeeCount
	e.AvailableSpots = s.AvailableSpots
	e.IsFull = s.IsFull
}

// ForReviews derives a location's rating summary. The average is the
// arithmetic mean rounded to one decimal place; both fields are zero when
// there are no reviews.
func ForReviews(reviews []domain.Review) domain.Rating {
	if len(reviews) == 0 {
		return domain.Rating{}
	}

	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	avg := float64(total) / float64(len(reviews))
	return domain.Rating{
		Average: math.Round(avg*10) / 10,
		Count:   len(reviews),
	}
}
