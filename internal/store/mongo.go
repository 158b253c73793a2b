// internal/store/mongo.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"agadirhub/internal/domain"
)

// Mongo persists aggregates as single documents, one collection per kind.
// Embedded collections (attendees, reviews) live inside the parent document
// as arrays; saves are revision-checked full replacements.
type Mongo struct {
	events    *mongo.Collection
	locations *mongo.Collection
	users     *mongo.Collection
	tracer    trace.Tracer
}

// NewMongo wraps an open database handle.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		events:    db.Collection("events"),
		locations: db.Collection("locations"),
		users:     db.Collection("users"),
		tracer:    otel.Tracer("agadirhub/store"),
	}
}

// EnsureIndexes creates the indexes the listing queries rely on.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("users_email_unique"),
		},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	_, err = m.events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index().SetName("events_date")},
		{Keys: bson.D{{Key: "category", Value: 1}}, Options: options.Index().SetName("events_category")},
		{Keys: bson.D{{Key: "status", Value: 1}}, Options: options.Index().SetName("events_status")},
		{Keys: bson.D{{Key: "organizer_id", Value: 1}}, Options: options.Index().SetName("events_organizer")},
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "location", Value: "text"},
				{Key: "tags", Value: "text"},
			},
			Options: options.Index().SetName("events_text"),
		},
	})
	if err != nil {
		return fmt.Errorf("events indexes: %w", err)
	}

	_, err = m.locations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}}, Options: options.Index().SetName("locations_type")},
		{Keys: bson.D{{Key: "is_active", Value: 1}}, Options: options.Index().SetName("locations_active")},
		{
			Keys: bson.D{
				{Key: "coordinates.latitude", Value: 1},
				{Key: "coordinates.longitude", Value: 1},
			},
			Options: options.Index().SetName("locations_coords"),
		},
		{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "address.street", Value: "text"},
			},
			Options: options.Index().SetName("locations_text"),
		},
	})
	if err != nil {
		return fmt.Errorf("locations indexes: %w", err)
	}
	return nil
}

func (m *Mongo) InsertEvent(ctx context.Context, e *domain.Event) error {
	if err := e.Validate(time.Time{}); err != nil {
		return err
	}

	ctx, span := m.tracer.Start(ctx, "store.insert_event",
		trace.WithAttributes(attribute.String("aggregate.id", e.ID.String())))
	defer span.End()

	now := time.Now().UTC()
	e.Revision = 1
	e.CreatedAt = now
	e.UpdatedAt = now
	if _, err := m.events.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (m *Mongo) Event(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	ctx, span := m.tracer.Start(ctx, "store.get_event",
		trace.WithAttributes(attribute.String("aggregate.id", id.String())))
	defer span.End()

	var e domain.Event
	if err := m.events.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

func (m *Mongo) Events(ctx context.Context, f EventFilter, s Sort, page Page) ([]*domain.Event, int64, error) {
	ctx, span := m.tracer.Start(ctx, "store.list_events")
	defer span.End()

	filter := eventQuery(f)

	total, err := m.events.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	findOpts := options.Find().SetSort(sortDoc(s, "date"))
	if page.Size > 0 {
		findOpts = findOpts.SetSkip(int64(page.Skip())).SetLimit(int64(page.Size))
	}

	cur, err := m.events.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var result []*domain.Event
	for cur.Next(ctx) {
		var e domain.Event
		if err := cur.Decode(&e); err != nil {
			return nil, 0, fmt.Errorf("decode event: %w", err)
		}
		result = append(result, &e)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list events cursor: %w", err)
	}

	span.SetAttributes(attribute.Int("events.matched", len(result)))
	return result, total, nil
}

func (m *Mongo) SaveEvent(ctx context.Context, e *domain.Event) error {
	if err := e.Validate(time.Time{}); err != nil {
		return err
	}
	return m.replace(ctx, m.events, "event", e.ID, e.Revision, func(rev int64) interface{} {
		e.Revision = rev
		e.UpdatedAt = time.Now().UTC()
		return e
	})
}

func (m *Mongo) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return m.deleteByID(ctx, m.events, "event", id)
}

func (m *Mongo) CountEvents(ctx context.Context, f EventFilter) (int64, error) {
	n, err := m.events.CountDocuments(ctx, eventQuery(f))
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func (m *Mongo) EventsByCategory(ctx context.Context) ([]GroupCount, error) {
	return m.groupBy(ctx, m.events, "$category", bson.M{"status": domain.EventPublished})
}

func (m *Mongo) IncrementEventCounter(ctx context.Context, id uuid.UUID, counter string) (int64, error) {
	// Reject unknown names up front so a bad counter never writes a stray
	// counters.<name> field into the document.
	switch counter {
	case "views", "shares", "likes":
	default:
		return 0, domain.NewValidationError("counter: unknown counter " + counter)
	}

	e := &domain.Event{}
	if err := m.increment(ctx, m.events, "event", id, counter, e); err != nil {
		return 0, err
	}
	switch counter {
	case "views":
		return e.Counters.Views, nil
	case "shares":
		return e.Counters.Shares, nil
	default:
		return e.Counters.Likes, nil
	}
}

func (m *Mongo) InsertLocation(ctx context.Context, l *domain.Location) error {
	if err := l.Validate(); err != nil {
		return err
	}

	ctx, span := m.tracer.Start(ctx, "store.insert_location",
		trace.WithAttributes(attribute.String("aggregate.id", l.ID.String())))
	defer span.End()

	now := time.Now().UTC()
	l.Revision = 1
	l.CreatedAt = now
	l.UpdatedAt = now
	if _, err := m.locations.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (m *Mongo) Location(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	ctx, span := m.tracer.Start(ctx, "store.get_location",
		trace.WithAttributes(attribute.String("aggregate.id", id.String())))
	defer span.End()

	var l domain.Location
	if err := m.locations.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

func (m *Mongo) Locations(ctx context.Context, f LocationFilter, s Sort, page Page) ([]*domain.Location, int64, error) {
	ctx, span := m.tracer.Start(ctx, "store.list_locations")
	defer span.End()

	filter := locationQuery(f)

	total, err := m.locations.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count locations: %w", err)
	}

	findOpts := options.Find().SetSort(sortDoc(s, "name"))
	if page.Size > 0 {
		findOpts = findOpts.SetSkip(int64(page.Skip())).SetLimit(int64(page.Size))
	}

	cur, err := m.locations.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("list locations: %w", err)
	}
	defer cur.Close(ctx)

	var result []*domain.Location
	for cur.Next(ctx) {
		var l domain.Location
		if err := cur.Decode(&l); err != nil {
			return nil, 0, fmt.Errorf("decode location: %w", err)
		}
		result = append(result, &l)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list locations cursor: %w", err)
	}

	span.SetAttributes(attribute.Int("locations.matched", len(result)))
	return result, total, nil
}

func (m *Mongo) SaveLocation(ctx context.Context, l *domain.Location) error {
	if err := l.Validate(); err != nil {
		return err
	}
	return m.replace(ctx, m.locations, "location", l.ID, l.Revision, func(rev int64) interface{} {
		l.Revision = rev
		l.UpdatedAt = time.Now().UTC()
		return l
	})
}

func (m *Mongo) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	return m.deleteByID(ctx, m.locations, "location", id)
}

func (m *Mongo) CountLocations(ctx context.Context, f LocationFilter) (int64, error) {
	n, err := m.locations.CountDocuments(ctx, locationQuery(f))
	if err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return n, nil
}

func (m *Mongo) LocationsByType(ctx context.Context) ([]GroupCount, error) {
	return m.groupBy(ctx, m.locations, "$type", bson.M{"is_active": true})
}

func (m *Mongo) IncrementLocationCounter(ctx context.Context, id uuid.UUID, counter string) (int64, error) {
	switch counter {
	case "views", "checkins":
	default:
		return 0, domain.NewValidationError("counter: unknown counter " + counter)
	}

	l := &domain.Location{}
	if err := m.increment(ctx, m.locations, "location", id, counter, l); err != nil {
		return 0, err
	}
	if counter == "views" {
		return l.Counters.Views, nil
	}
	return l.Counters.Checkins, nil
}

func (m *Mongo) InsertUser(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	ctx, span := m.tracer.Start(ctx, "store.insert_user",
		trace.WithAttributes(attribute.String("aggregate.id", u.ID.String())))
	defer span.End()

	now := time.Now().UTC()
	u.Revision = 1
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := m.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (m *Mongo) User(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := m.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (m *Mongo) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := m.users.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (m *Mongo) SaveUser(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	return m.replace(ctx, m.users, "user", u.ID, u.Revision, func(rev int64) interface{} {
		u.Revision = rev
		u.UpdatedAt = time.Now().UTC()
		return u
	})
}

func (m *Mongo) CountUsers(ctx context.Context, activeOnly bool) (int64, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	n, err := m.users.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// replace performs the revision-checked document replacement shared by all
// Save methods. The filter matches both id and the revision the caller read;
// a zero match count means either the document is gone or another writer
// committed first.
func (m *Mongo) replace(ctx context.Context, col *mongo.Collection, kind string, id uuid.UUID, readRev int64, bump func(rev int64) interface{}) error {
	ctx, span := m.tracer.Start(ctx, "store.save_"+kind,
		trace.WithAttributes(
			attribute.String("aggregate.id", id.String()),
			attribute.Int64("expected.revision", readRev),
		),
	)
	defer span.End()

	doc := bump(readRev + 1)
	res, err := col.ReplaceOne(ctx, bson.M{"_id": id, "revision": readRev}, doc)
	if err != nil {
		return fmt.Errorf("save %s: %w", kind, err)
	}
	if res.MatchedCount == 0 {
		bump(readRev) // restore the caller's view
		n, err := col.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("save %s post-check: %w", kind, err)
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		span.SetAttributes(attribute.Bool("conflict.detected", true))
		return ErrRevisionMismatch
	}
	return nil
}

func (m *Mongo) deleteByID(ctx context.Context, col *mongo.Collection, kind string, id uuid.UUID) error {
	ctx, span := m.tracer.Start(ctx, "store.delete_"+kind,
		trace.WithAttributes(attribute.String("aggregate.id", id.String())))
	defer span.End()

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// increment applies an atomic $inc to a metadata counter and decodes the
// updated document into out.
func (m *Mongo) increment(ctx context.Context, col *mongo.Collection, kind string, id uuid.UUID, counter string, out interface{}) error {
	ctx, span := m.tracer.Start(ctx, "store.increment_"+kind+"_counter",
		trace.WithAttributes(
			attribute.String("aggregate.id", id.String()),
			attribute.String("counter", counter),
		),
	)
	defer span.End()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"counters." + counter: 1}},
		opts,
	).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("increment %s counter: %w", kind, err)
	}
	return nil
}

func (m *Mongo) groupBy(ctx context.Context, col *mongo.Collection, field string, match bson.M) ([]GroupCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("group by %s: %w", field, err)
	}
	defer cur.Close(ctx)

	var out []GroupCount
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode group counts: %w", err)
	}
	return out, nil
}

func eventQuery(f EventFilter) bson.M {
	q := bson.M{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.PublicOnly {
		q["is_public"] = true
	}
	if f.LocationText != "" {
		q["location"] = bson.M{"$regex": f.LocationText, "$options": "i"}
	}
	if f.From != nil || f.To != nil {
		dateRange := bson.M{}
		if f.From != nil {
			dateRange["$gte"] = *f.From
		}
		if f.To != nil {
			dateRange["$lte"] = *f.To
		}
		q["date"] = dateRange
	}
	if f.Search != "" {
		q["$text"] = bson.M{"$search": f.Search}
	}
	if f.OrganizerID != nil {
		q["organizer_id"] = *f.OrganizerID
	}
	if f.AttendeeID != nil {
		if f.JoinedAfter != nil {
			q["attendees"] = bson.M{"$elemMatch": bson.M{
				"user_id":       *f.AttendeeID,
				"registered_at": bson.M{"$gte": *f.JoinedAfter},
			}}
		} else {
			q["attendees.user_id"] = *f.AttendeeID
		}
	}
	if f.CreatedAfter != nil {
		q["created_at"] = bson.M{"$gte": *f.CreatedAfter}
	}
	return q
}

func locationQuery(f LocationFilter) bson.M {
	q := bson.M{}
	if f.Type != "" {
		q["type"] = f.Type
	}
	if f.ActiveOnly {
		q["is_active"] = true
	}
	if f.VenuesOnly {
		q["world_cup_2030.is_venue"] = true
	}
	if f.Search != "" {
		q["$text"] = bson.M{"$search": f.Search}
	}
	if f.Geo != nil {
		box := f.Geo.BoundingBox()
		q["coordinates.latitude"] = bson.M{"$gte": box.MinLat, "$lte": box.MaxLat}
		q["coordinates.longitude"] = bson.M{"$gte": box.MinLng, "$lte": box.MaxLng}
	}
	return q
}

func sortDoc(s Sort, defaultField string) bson.D {
	field := defaultField
	switch s.Field {
	case "date", "title", "price", "name":
		field = s.Field
	case "created_at":
		field = "created_at"
	case "rating":
		field = "rating.average"
	}
	order := 1
	if s.Descending {
		order = -1
	}
	return bson.D{{Key: field, Value: order}}
}
