// internal/store/memory_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agadirhub/internal/domain"
)

func seedEvent(t *testing.T, m *Memory, mutate func(*domain.Event)) *domain.Event {
	t.Helper()
	ev := &domain.Event{
		ID:          uuid.New(),
		Title:       "Fixture Event",
		Description: "Seeded for store tests.",
		Date:        time.Now().Add(24 * time.Hour),
		Location:    "Agadir Marina",
		Category:    domain.CategoryCommunity,
		OrganizerID: uuid.New(),
		Currency:    "MAD",
		Status:      domain.EventPublished,
		IsPublic:    true,
	}
	if mutate != nil {
		mutate(ev)
	}
	require.NoError(t, m.InsertEvent(context.Background(), ev))
	return ev
}

func TestInsertAssignsRevisionAndTimestamps(t *testing.T) {
	m := NewMemory()

	ev := seedEvent(t, m, nil)

	assert.Equal(t, int64(1), ev.Revision)
	assert.False(t, ev.CreatedAt.IsZero())
	assert.False(t, ev.UpdatedAt.IsZero())
}

func TestSaveDetectsStaleRevision(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	ev := seedEvent(t, m, nil)

	first, err := m.Event(ctx, ev.ID)
	require.NoError(t, err)
	second, err := m.Event(ctx, ev.ID)
	require.NoError(t, err)

	first.Title = "First Writer"
	require.NoError(t, m.SaveEvent(ctx, first))

	second.Title = "Second Writer"
	err = m.SaveEvent(ctx, second)
	assert.ErrorIs(t, err, ErrRevisionMismatch)

	current, err := m.Event(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "First Writer", current.Title)
	assert.Equal(t, int64(2), current.Revision)
}

func TestSaveUnknownEvent(t *testing.T) {
	m := NewMemory()

	ev := seedEvent(t, m, nil)
	require.NoError(t, m.DeleteEvent(context.Background(), ev.ID))

	err := m.SaveEvent(context.Background(), ev)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventReadsAreIsolated(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	ev := seedEvent(t, m, nil)

	read, err := m.Event(ctx, ev.ID)
	require.NoError(t, err)
	read.Title = "Mutated Locally"
	read.Attendees = append(read.Attendees, domain.Attendee{UserID: uuid.New()})

	again, err := m.Event(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fixture Event", again.Title)
	assert.Empty(t, again.Attendees)
}

func TestEventsFilteringAndPagination(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	base := time.Now().Add(24 * time.Hour)
	for i := 0; i < 5; i++ {
		offset := time.Duration(i) * 24 * time.Hour
		seedEvent(t, m, func(e *domain.Event) {
			e.Title = "Community Meetup " + string(rune('A'+i))
			e.Date = base.Add(offset)
		})
	}
	seedEvent(t, m, func(e *domain.Event) {
		e.Title = "Tech Conference"
		e.Category = domain.CategoryTechnology
	})
	seedEvent(t, m, func(e *domain.Event) { e.Status = domain.EventDraft })

	items, total, err := m.Events(ctx,
		EventFilter{Category: domain.CategoryCommunity, Status: domain.EventPublished},
		Sort{Field: "date"},
		Page{Number: 1, Size: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, items, 3)
	assert.True(t, items[0].Date.Before(items[1].Date))

	items, _, err = m.Events(ctx,
		EventFilter{Category: domain.CategoryCommunity, Status: domain.EventPublished},
		Sort{Field: "date"},
		Page{Number: 2, Size: 3})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, total, err = m.Events(ctx, EventFilter{Search: "conference"}, Sort{}, Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Tech Conference", items[0].Title)
}

func TestEventsDateWindow(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Now()
	seedEvent(t, m, func(e *domain.Event) { e.Date = now.Add(24 * time.Hour) })
	inWindow := seedEvent(t, m, func(e *domain.Event) { e.Date = now.Add(5 * 24 * time.Hour) })
	seedEvent(t, m, func(e *domain.Event) { e.Date = now.Add(30 * 24 * time.Hour) })

	from := now.Add(3 * 24 * time.Hour)
	to := now.Add(10 * 24 * time.Hour)
	items, total, err := m.Events(ctx, EventFilter{From: &from, To: &to}, Sort{}, Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, inWindow.ID, items[0].ID)
}

func TestEventsByCategoryBuckets(t *testing.T) {
	m := NewMemory()

	for i := 0; i < 3; i++ {
		seedEvent(t, m, nil)
	}
	seedEvent(t, m, func(e *domain.Event) { e.Category = domain.CategorySports })

	counts, err := m.EventsByCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, domain.CategoryCommunity, counts[0].Key)
	assert.Equal(t, int64(3), counts[0].Count)
}

func TestIncrementEventCounter(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	ev := seedEvent(t, m, nil)

	n, err := m.IncrementEventCounter(ctx, ev.ID, "views")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = m.IncrementEventCounter(ctx, ev.ID, "views")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = m.IncrementEventCounter(ctx, ev.ID, "applause")
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = m.IncrementEventCounter(ctx, uuid.New(), "views")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGeoBoundingBox(t *testing.T) {
	g := GeoFilter{Latitude: 30.4278, Longitude: -9.5981, RadiusKm: 10}
	box := g.BoundingBox()

	assert.InDelta(t, 30.4278-10.0/111.0, box.MinLat, 1e-9)
	assert.InDelta(t, 30.4278+10.0/111.0, box.MaxLat, 1e-9)
	assert.Less(t, box.MinLng, -9.5981)
	assert.Greater(t, box.MaxLng, -9.5981)
	// Longitude degrees shrink with latitude, so the box is wider in
	// degrees than it would be at the equator.
	assert.Greater(t, box.MaxLng-box.MinLng, 2*10.0/111.0)
}

func TestUserEmailLookupIsCaseInsensitive(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	u := &domain.User{
		ID:        uuid.New(),
		FirstName: "Nadia",
		LastName:  "Tazi",
		Email:     "nadia@example.com",
		City:      "Rabat",
		Role:      domain.RoleUser,
		IsActive:  true,
	}
	require.NoError(t, m.InsertUser(ctx, u))

	dup := *u
	dup.ID = uuid.New()
	dup.Email = "NADIA@example.com"
	assert.ErrorIs(t, m.InsertUser(ctx, &dup), domain.ErrConflict)

	found, err := m.UserByEmail(ctx, "nadia@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = m.UserByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
