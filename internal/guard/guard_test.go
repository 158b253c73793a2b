// internal/guard/guard_test.go
package guard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agadirhub/internal/domain"
	"agadirhub/internal/store"
)

func testGuard(t *testing.T) (*Guard, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return New(mem, zap.NewNop().Sugar()), mem
}

func seedEvent(t *testing.T, mem *store.Memory, maxAttendees *int) *domain.Event {
	t.Helper()
	ev := &domain.Event{
		ID:           uuid.New(),
		Title:        "Concert at the marina",
		Description:  "Open-air concert",
		Date:         time.Now().Add(24 * time.Hour),
		Location:     "Agadir Marina",
		Category:     domain.CategoryCultural,
		OrganizerID:  uuid.New(),
		MaxAttendees: maxAttendees,
		Currency:     "MAD",
		Status:       domain.EventPublished,
		IsPublic:     true,
	}
	require.NoError(t, mem.InsertEvent(context.Background(), ev))
	return ev
}

func seedLocation(t *testing.T, mem *store.Memory) *domain.Location {
	t.Helper()
	loc := &domain.Location{
		ID:   uuid.New(),
		Name: "Kasbah Agadir Oufella",
		Type: domain.LocationHistorical,
		Coordinates: domain.Coordinates{
			Latitude:  30.4397,
			Longitude: -9.6177,
		},
		Address:  domain.Address{City: "Agadir", Country: "Morocco"},
		IsActive: true,
	}
	require.NoError(t, mem.InsertLocation(context.Background(), loc))
	return loc
}

func intPtr(n int) *int { return &n }

func TestJoinEventFillsCapacityExactlyOnce(t *testing.T) {
	g, mem := testGuard(t)
	const capacity = 5
	const contenders = 20
	ev := seedEvent(t, mem, intPtr(capacity))

	var wg sync.WaitGroup
	var successes, capacityErrs int64

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.JoinEvent(context.Background(), ev.ID, uuid.New())
			switch {
			case err == nil:
				atomic.AddInt64(&successes, 1)
			case errors.Is(err, domain.ErrCapacityExceeded):
				atomic.AddInt64(&capacityErrs, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, capacity, successes)
	assert.EqualValues(t, contenders-capacity, capacityErrs)

	stored, err := mem.Event(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, stored.AttendeeCount)
	assert.True(t, stored.IsFull)
	assert.Equal(t, 0, *stored.AvailableSpots)

	registered := 0
	for _, a := range stored.Attendees {
		if a.Status == domain.AttendeeRegistered {
			registered++
		}
	}
	assert.Equal(t, capacity, registered)
}

func TestJoinEventLastSlotRace(t *testing.T) {
	g, mem := testGuard(t)
	ev := seedEvent(t, mem, intPtr(1))

	userA, userB := uuid.New(), uuid.New()

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, u := range []uuid.UUID{userA, userB} {
		wg.Add(1)
		go func(i int, u uuid.UUID) {
			defer wg.Done()
			_, results[i] = g.JoinEvent(context.Background(), ev.ID, u)
		}(i, u)
	}
	wg.Wait()

	winner := 0
	for _, err := range results {
		if err == nil {
			winner++
		} else {
			assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
		}
	}
	assert.Equal(t, 1, winner, "exactly one of the two racing joins must succeed")

	stored, err := mem.Event(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.AttendeeCount)
}

func TestJoinEventDuplicate(t *testing.T) {
	g, mem := testGuard(t)
	ev := seedEvent(t, mem, nil)
	user := uuid.New()

	count, err := g.JoinEvent(context.Background(), ev.ID, user)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = g.JoinEvent(context.Background(), ev.ID, user)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestJoinEventNotFound(t *testing.T) {
	g, _ := testGuard(t)
	_, err := g.JoinEvent(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJoinEventUnpublishedInvisible(t *testing.T) {
	g, mem := testGuard(t)
	ev := seedEvent(t, mem, nil)

	loaded, err := mem.Event(context.Background(), ev.ID)
	require.NoError(t, err)
	loaded.Status = domain.EventDraft
	require.NoError(t, mem.SaveEvent(context.Background(), loaded))

	_, err = g.JoinEvent(context.Background(), ev.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJoinEventUnlimitedCapacity(t *testing.T) {
	g, mem := testGuard(t)
	ev := seedEvent(t, mem, nil)

	for i := 0; i < 30; i++ {
		_, err := g.JoinEvent(context.Background(), ev.ID, uuid.New())
		require.NoError(t, err)
	}

	stored, err := mem.Event(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.AttendeeCount)
	assert.False(t, stored.IsFull)
	assert.Nil(t, stored.AvailableSpots)
}

func TestLeaveEventIdempotent(t *testing.T) {
	g, mem := testGuard(t)
	ev := seedEvent(t, mem, intPtr(10))
	user := uuid.New()

	_, err := g.JoinEvent(context.Background(), ev.ID, user)
	require.NoError(t, err)

	count, err := g.LeaveEvent(context.Background(), ev.ID, user)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Second leave is a no-op, not an error.
	count, err = g.LeaveEvent(context.Background(), ev.ID, user)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Leaving frees the spot for someone else.
	count, err = g.JoinEvent(context.Background(), ev.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLeaveEventNotFound(t *testing.T) {
	g, _ := testGuard(t)
	_, err := g.LeaveEvent(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddReview(t *testing.T) {
	g, mem := testGuard(t)
	loc := seedLocation(t, mem)

	userA := uuid.New()
	rating, err := g.AddReview(context.Background(), loc.ID, userA, 4, "worth the climb")
	require.NoError(t, err)
	assert.Equal(t, domain.Rating{Average: 4.0, Count: 1}, rating)

	// Same user cannot review twice; summary is untouched.
	_, err = g.AddReview(context.Background(), loc.ID, userA, 5, "great")
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, err := mem.Location(context.Background(), loc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Rating{Average: 4.0, Count: 1}, stored.Rating)

	rating, err = g.AddReview(context.Background(), loc.ID, uuid.New(), 5, "")
	require.NoError(t, err)
	assert.Equal(t, domain.Rating{Average: 4.5, Count: 2}, rating)
}

func TestAddReviewValidation(t *testing.T) {
	g, mem := testGuard(t)
	loc := seedLocation(t, mem)

	var ve *domain.ValidationError
	_, err := g.AddReview(context.Background(), loc.ID, uuid.New(), 0, "")
	require.ErrorAs(t, err, &ve)

	_, err = g.AddReview(context.Background(), loc.ID, uuid.New(), 6, "")
	require.ErrorAs(t, err, &ve)

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}
	_, err = g.AddReview(context.Background(), loc.ID, uuid.New(), 3, string(long))
	require.ErrorAs(t, err, &ve)

	stored, err := mem.Location(context.Background(), loc.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Rating.Count)
}

func TestAddReviewConcurrentDistinctUsers(t *testing.T) {
	g, mem := testGuard(t)
	loc := seedLocation(t, mem)

	const reviewers = 10
	var wg sync.WaitGroup
	for i := 0; i < reviewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.AddReview(context.Background(), loc.ID, uuid.New(), 4, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := mem.Location(context.Background(), loc.ID)
	require.NoError(t, err)
	assert.Equal(t, reviewers, stored.Rating.Count)
	assert.Equal(t, 4.0, stored.Rating.Average)
}

func TestIncrementCounter(t *testing.T) {
	g, mem := testGuard(t)
	loc := seedLocation(t, mem)

	const checkins = 25
	var wg sync.WaitGroup
	for i := 0; i < checkins; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.IncrementCounter(context.Background(), KindLocation, loc.ID, "checkins")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := mem.Location(context.Background(), loc.ID)
	require.NoError(t, err)
	assert.EqualValues(t, checkins, stored.Counters.Checkins)

	var se *domain.StorageError
	_, err = g.IncrementCounter(context.Background(), KindLocation, uuid.New(), "checkins")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, errors.As(err, &se))
}

// conflictingStore wraps a memory store and fails every save with a revision
// mismatch, forcing the guard to exhaust its retries.
type conflictingStore struct {
	*store.Memory
}

func (c *conflictingStore) SaveEvent(ctx context.Context, e *domain.Event) error {
	return store.ErrRevisionMismatch
}

func TestJoinEventRetriesSurfaceAsStorageError(t *testing.T) {
	mem := store.NewMemory()
	g := New(&conflictingStore{mem}, zap.NewNop().Sugar())
	ev := seedEvent(t, mem, nil)

	_, err := g.JoinEvent(context.Background(), ev.ID, uuid.New())
	var se *domain.StorageError
	require.ErrorAs(t, err, &se)
}

func TestJoinEventIgnoresCallerCancellation(t *testing.T) {
	g, mem := testGuard(t)
	ev := seedEvent(t, mem, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count, err := g.JoinEvent(ctx, ev.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
