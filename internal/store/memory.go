// internal/store/memory.go
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"agadirhub/internal/domain"
)

// Memory is an in-process Store used by tests. It enforces the same
// revision semantics as the Mongo implementation: saves succeed only when
// the caller read the latest committed revision.
type Memory struct {
	mu        sync.RWMutex
	events    map[uuid.UUID]*domain.Event
	locations map[uuid.UUID]*domain.Location
	users     map[uuid.UUID]*domain.User
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		events:    make(map[uuid.UUID]*domain.Event),
		locations: make(map[uuid.UUID]*domain.Location),
		users:     make(map[uuid.UUID]*domain.User),
	}
}

func (m *Memory) InsertEvent(ctx context.Context, e *domain.Event) error {
	if err := e.Validate(time.Time{}); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	e.Revision = 1
	e.CreatedAt = now
	e.UpdatedAt = now
	m.events[e.ID] = cloneEvent(e)
	return nil
}

func (m *Memory) Event(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneEvent(e), nil
}

func (m *Memory) Events(ctx context.Context, f EventFilter, s Sort, page Page) ([]*domain.Event, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*domain.Event
	for _, e := range m.events {
		if matchEvent(f, e) {
			matched = append(matched, cloneEvent(e))
		}
	}
	sortEvents(matched, s)
	total := int64(len(matched))
	return paginate(matched, page), total, nil
}

func (m *Memory) SaveEvent(ctx context.Context, e *domain.Event) error {
	if err := e.Validate(time.Time{}); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.events[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Revision != e.Revision {
		return ErrRevisionMismatch
	}
	e.Revision++
	e.UpdatedAt = time.Now().UTC()
	m.events[e.ID] = cloneEvent(e)
	return nil
}

func (m *Memory) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *Memory) CountEvents(ctx context.Context, f EventFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, e := range m.events {
		if matchEvent(f, e) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) EventsByCategory(ctx context.Context) ([]GroupCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int64)
	for _, e := range m.events {
		if e.Status == domain.EventPublished {
			counts[e.Category]++
		}
	}
	return groupCounts(counts), nil
}

func (m *Memory) IncrementEventCounter(ctx context.Context, id uuid.UUID, counter string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	switch counter {
	case "views":
		e.Counters.Views++
		return e.Counters.Views, nil
	case "shares":
		e.Counters.Shares++
		return e.Counters.Shares, nil
	case "likes":
		e.Counters.Likes++
		return e.Counters.Likes, nil
	default:
		return 0, domain.NewValidationError("counter: unknown counter " + counter)
	}
}

func (m *Memory) InsertLocation(ctx context.Context, l *domain.Location) error {
	if err := l.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	l.Revision = 1
	l.CreatedAt = now
	l.UpdatedAt = now
	m.locations[l.ID] = cloneLocation(l)
	return nil
}

func (m *Memory) Location(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.locations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneLocation(l), nil
}

func (m *Memory) Locations(ctx context.Context, f LocationFilter, s Sort, page Page) ([]*domain.Location, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*domain.Location
	for _, l := range m.locations {
		if matchLocation(f, l) {
			matched = append(matched, cloneLocation(l))
		}
	}
	sortLocations(matched, s)
	total := int64(len(matched))
	return paginate(matched, page), total, nil
}

func (m *Memory) SaveLocation(ctx context.Context, l *domain.Location) error {
	if err := l.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.locations[l.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Revision != l.Revision {
		return ErrRevisionMismatch
	}
	l.Revision++
	l.UpdatedAt = time.Now().UTC()
	m.locations[l.ID] = cloneLocation(l)
	return nil
}

func (m *Memory) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.locations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.locations, id)
	return nil
}

func (m *Memory) CountLocations(ctx context.Context, f LocationFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, l := range m.locations {
		if matchLocation(f, l) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) LocationsByType(ctx context.Context) ([]GroupCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int64)
	for _, l := range m.locations {
		if l.IsActive {
			counts[l.Type]++
		}
	}
	return groupCounts(counts), nil
}

func (m *Memory) IncrementLocationCounter(ctx context.Context, id uuid.UUID, counter string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locations[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	switch counter {
	case "views":
		l.Counters.Views++
		return l.Counters.Views, nil
	case "checkins":
		l.Counters.Checkins++
		return l.Counters.Checkins, nil
	default:
		return 0, domain.NewValidationError("counter: unknown counter " + counter)
	}
}

func (m *Memory) InsertUser(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrConflict
		}
	}

	now := time.Now().UTC()
	u.Revision = 1
	u.CreatedAt = now
	u.UpdatedAt = now
	m.users[u.ID] = cloneUser(u)
	return nil
}

func (m *Memory) User(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *Memory) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) SaveUser(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.users[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Revision != u.Revision {
		return ErrRevisionMismatch
	}
	u.Revision++
	u.UpdatedAt = time.Now().UTC()
	m.users[u.ID] = cloneUser(u)
	return nil
}

func (m *Memory) CountUsers(ctx context.Context, activeOnly bool) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, u := range m.users {
		if !activeOnly || u.IsActive {
			n++
		}
	}
	return n, nil
}

func matchEvent(f EventFilter, e *domain.Event) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.PublicOnly && !e.IsPublic {
		return false
	}
	if f.LocationText != "" && !containsFold(e.Location, f.LocationText) {
		return false
	}
	if f.From != nil && e.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Date.After(*f.To) {
		return false
	}
	if f.Search != "" {
		if !containsFold(e.Title, f.Search) &&
			!containsFold(e.Description, f.Search) &&
			!containsFold(e.Location, f.Search) &&
			!tagsContainFold(e.Tags, f.Search) {
			return false
		}
	}
	if f.OrganizerID != nil && e.OrganizerID != *f.OrganizerID {
		return false
	}
	if f.AttendeeID != nil && !attendeeMatch(e, *f.AttendeeID, f.JoinedAfter) {
		return false
	}
	if f.CreatedAfter != nil && e.CreatedAt.Before(*f.CreatedAfter) {
		return false
	}
	return true
}

func attendeeMatch(e *domain.Event, userID uuid.UUID, joinedAfter *time.Time) bool {
	for _, a := range e.Attendees {
		if a.UserID != userID {
			continue
		}
		if joinedAfter != nil && a.RegisteredAt.Before(*joinedAfter) {
			continue
		}
		return true
	}
	return false
}

func matchLocation(f LocationFilter, l *domain.Location) bool {
	if f.Type != "" && l.Type != f.Type {
		return false
	}
	if f.ActiveOnly && !l.IsActive {
		return false
	}
	if f.VenuesOnly && !l.WorldCup2030.IsVenue {
		return false
	}
	if f.Search != "" {
		if !containsFold(l.Name, f.Search) &&
			!containsFold(l.Description, f.Search) &&
			!containsFold(l.Address.Street, f.Search) {
			return false
		}
	}
	if f.Geo != nil {
		box := f.Geo.BoundingBox()
		lat, lng := l.Coordinates.Latitude, l.Coordinates.Longitude
		if lat < box.MinLat || lat > box.MaxLat || lng < box.MinLng || lng > box.MaxLng {
			return false
		}
	}
	return true
}

func sortEvents(events []*domain.Event, s Sort) {
	less := func(a, b *domain.Event) bool { return a.Date.Before(b.Date) }
	switch s.Field {
	case "title":
		less = func(a, b *domain.Event) bool { return a.Title < b.Title }
	case "price":
		less = func(a, b *domain.Event) bool { return a.Price < b.Price }
	case "created_at":
		less = func(a, b *domain.Event) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	sort.SliceStable(events, func(i, j int) bool {
		if s.Descending {
			return less(events[j], events[i])
		}
		return less(events[i], events[j])
	})
}

func sortLocations(locations []*domain.Location, s Sort) {
	less := func(a, b *domain.Location) bool { return a.Name < b.Name }
	switch s.Field {
	case "rating":
		less = func(a, b *domain.Location) bool { return a.Rating.Average < b.Rating.Average }
	case "created_at":
		less = func(a, b *domain.Location) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	sort.SliceStable(locations, func(i, j int) bool {
		if s.Descending {
			return less(locations[j], locations[i])
		}
		return less(locations[i], locations[j])
	})
}

func paginate[T any](items []T, page Page) []T {
	if page.Size <= 0 {
		return items
	}
	skip := page.Skip()
	if skip >= len(items) {
		return nil
	}
	end := skip + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

func groupCounts(counts map[string]int64) []GroupCount {
	out := make([]GroupCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, GroupCount{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func tagsContainFold(tags []string, needle string) bool {
	for _, t := range tags {
		if containsFold(t, needle) {
			return true
		}
	}
	return false
}

func cloneEvent(e *domain.Event) *domain.Event {
	c := *e
	c.Attendees = append([]domain.Attendee(nil), e.Attendees...)
	c.Tags = append([]string(nil), e.Tags...)
	c.Images = append([]domain.Image(nil), e.Images...)
	if e.EndDate != nil {
		end := *e.EndDate
		c.EndDate = &end
	}
	if e.Coordinates != nil {
		coords := *e.Coordinates
		c.Coordinates = &coords
	}
	if e.MaxAttendees != nil {
		max := *e.MaxAttendees
		c.MaxAttendees = &max
	}
	if e.AvailableSpots != nil {
		spots := *e.AvailableSpots
		c.AvailableSpots = &spots
	}
	return &c
}

func cloneLocation(l *domain.Location) *domain.Location {
	c := *l
	c.Reviews = append([]domain.Review(nil), l.Reviews...)
	c.Amenities = append([]string(nil), l.Amenities...)
	c.Images = append([]domain.Image(nil), l.Images...)
	return &c
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	if u.LastLogin != nil {
		last := *u.LastLogin
		c.LastLogin = &last
	}
	return &c
}
