// internal/guard/guard.go

// Package guard is the only code path allowed to mutate an aggregate's
// embedded collections. Every operation is a read-check-write against the
// store's revision-checked save: when two callers race on the same aggregate
// the loser re-reads and re-checks, so invariants hold as if the mutations
// were serialized.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agadirhub/internal/domain"
	"agadirhub/internal/stats"
	"agadirhub/internal/store"
)

// maxRetries bounds the optimistic retry loop. Exhaustion is surfaced as a
// StorageError; external callers own any further retry policy.
const maxRetries = 5

// Kind names an aggregate collection for counter operations.
type Kind string

const (
	KindEvent    Kind = "event"
	KindLocation Kind = "location"
)

// Guard serializes embedded-collection mutations per aggregate id.
type Guard struct {
	store store.Store
	log   *zap.SugaredLogger
}

// New creates a Guard over the given store.
func New(st store.Store, log *zap.SugaredLogger) *Guard {
	return &Guard{store: st, log: log.With("component", "guard")}
}

// JoinEvent registers userID for the event. It fails with ErrNotFound when
// the event is absent, ErrConflict when the user already holds a registered
// entry, and ErrCapacityExceeded when the event is full. On success it
// returns the updated attendee count.
func (g *Guard) JoinEvent(ctx context.Context, eventID, userID uuid.UUID) (int, error) {
	// The mutation runs to completion even if the caller goes away; a
	// half-applied registration must never be observable.
	ctx = context.WithoutCancel(ctx)

	for attempt := 0; attempt < maxRetries; attempt++ {
		ev, err := g.store.Event(ctx, eventID)
		if err != nil {
			return 0, g.storeErr("join event", err)
		}

		if ev.Status != domain.EventPublished || !ev.IsPublic {
			return 0, domain.ErrNotFound
		}
		if ev.RegisteredAttendee(userID) {
			return 0, domain.ErrConflict
		}
		// Recompute rather than trust the stored derived field.
		if stats.ForEvent(ev.Attendees, ev.MaxAttendees).IsFull {
			return 0, domain.ErrCapacityExceeded
		}

		ev.Attendees = append(ev.Attendees, domain.Attendee{
			UserID:       userID,
			RegisteredAt: time.Now().UTC(),
			Status:       domain.AttendeeRegistered,
		})
		stats.ForEvent(ev.Attendees, ev.MaxAttendees).Apply(ev)

		err = g.store.SaveEvent(ctx, ev)
		if errors.Is(err, store.ErrRevisionMismatch) {
			continue
		}
		if err != nil {
			return 0, g.storeErr("join event", err)
		}
		return ev.AttendeeCount, nil
	}
	return 0, g.retriesExhausted("join event", eventID)
}

// LeaveEvent removes any attendee entry for userID. It is idempotent:
// leaving an event the user never joined succeeds and reports the current
// attendee count.
func (g *Guard) LeaveEvent(ctx context.Context, eventID, userID uuid.UUID) (int, error) {
	ctx = context.WithoutCancel(ctx)

	for attempt := 0; attempt < maxRetries; attempt++ {
		ev, err := g.store.Event(ctx, eventID)
		if err != nil {
			return 0, g.storeErr("leave event", err)
		}

		kept := ev.Attendees[:0]
		removed := false
		for _, a := range ev.Attendees {
			if a.UserID == userID {
				removed = true
				continue
			}
			kept = append(kept, a)
		}
		if !removed {
			return ev.AttendeeCount, nil
		}

		ev.Attendees = kept
		stats.ForEvent(ev.Attendees, ev.MaxAttendees).Apply(ev)

		err = g.store.SaveEvent(ctx, ev)
		if errors.Is(err, store.ErrRevisionMismatch) {
			continue
		}
		if err != nil {
			return 0, g.storeErr("leave event", err)
		}
		return ev.AttendeeCount, nil
	}
	return 0, g.retriesExhausted("leave event", eventID)
}

// AddReview appends a review for userID. At most one review per user may
// exist; a second attempt fails with ErrConflict and leaves the rating
// summary untouched.
func (g *Guard) AddReview(ctx context.Context, locationID, userID uuid.UUID, rating int, comment string) (domain.Rating, error) {
	if err := domain.ValidateReview(rating, comment); err != nil {
		return domain.Rating{}, err
	}

	ctx = context.WithoutCancel(ctx)

	for attempt := 0; attempt < maxRetries; attempt++ {
		loc, err := g.store.Location(ctx, locationID)
		if err != nil {
			return domain.Rating{}, g.storeErr("add review", err)
		}

		if loc.ReviewedBy(userID) {
			return domain.Rating{}, domain.ErrConflict
		}

		loc.Reviews = append(loc.Reviews, domain.Review{
			UserID:    userID,
			Rating:    rating,
			Comment:   comment,
			CreatedAt: time.Now().UTC(),
		})
		loc.Rating = stats.ForReviews(loc.Reviews)

		err = g.store.SaveLocation(ctx, loc)
		if errors.Is(err, store.ErrRevisionMismatch) {
			continue
		}
		if err != nil {
			return domain.Rating{}, g.storeErr("add review", err)
		}
		return loc.Rating, nil
	}
	return domain.Rating{}, g.retriesExhausted("add review", locationID)
}

// IncrementCounter bumps a monotonic metadata counter and returns the new
// value. The store applies the increment atomically, so no retry loop is
// needed; the only invariant is that the aggregate exists.
func (g *Guard) IncrementCounter(ctx context.Context, kind Kind, id uuid.UUID, counter string) (int64, error) {
	ctx = context.WithoutCancel(ctx)

	var (
		value int64
		err   error
	)
	switch kind {
	case KindEvent:
		value, err = g.store.IncrementEventCounter(ctx, id, counter)
	case KindLocation:
		value, err = g.store.IncrementLocationCounter(ctx, id, counter)
	default:
		return 0, domain.NewValidationError("kind: unknown aggregate kind " + string(kind))
	}
	if err != nil {
		return 0, g.storeErr("increment counter", err)
	}
	return value, nil
}

// storeErr passes domain outcomes through untouched and wraps anything else
// as a StorageError.
func (g *Guard) storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
		return err
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return err
	}
	g.log.Errorw("store failure", "op", op, "error", err)
	return &domain.StorageError{Op: op, Err: err}
}

func (g *Guard) retriesExhausted(op string, id uuid.UUID) error {
	g.log.Warnw("retries exhausted", "op", op, "aggregate_id", id)
	return &domain.StorageError{Op: op, Err: fmt.Errorf("gave up after %d revision conflicts", maxRetries)}
}
