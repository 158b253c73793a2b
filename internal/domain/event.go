// internal/domain/event.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event categories recognised by the platform.
const (
	CategoryCultural   = "cultural"
	CategoryTechnology = "technology"
	CategorySports     = "sports"
	CategoryCommunity  = "community"
	CategoryBusiness   = "business"
	CategoryEducation  = "education"
)

// Event lifecycle states.
const (
	EventDraft     = "draft"
	EventPublished = "published"
	EventCancelled = "cancelled"
	EventCompleted = "completed"
)

// Attendee registration states.
const (
	AttendeeRegistered = "registered"
	AttendeeAttended   = "attended"
	AttendeeCancelled  = "cancelled"
)

// Attendee is an entry in an event's embedded attendee list. At most one
// entry per user may hold the registered status at any time.
type Attendee struct {
	UserID       uuid.UUID `bson:"user_id" json:"userId"`
	RegisteredAt time.Time `bson:"registered_at" json:"registeredAt"`
	Status       string    `bson:"status" json:"status"`
}

// Coordinates is an optional geographic point.
type Coordinates struct {
	Latitude  float64 `bson:"latitude" json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `bson:"longitude" json:"longitude" validate:"gte=-180,lte=180"`
}

// ContactInfo holds optional contact details for an event or location.
type ContactInfo struct {
	Email   string `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,moroccan_phone"`
	Website string `bson:"website,omitempty" json:"website,omitempty" validate:"omitempty,url"`
}

// Image is a stored image reference.
type Image struct {
	URL       string `bson:"url" json:"url"`
	Alt       string `bson:"alt,omitempty" json:"alt,omitempty"`
	IsPrimary bool   `bson:"is_primary" json:"isPrimary"`
}

// EventCounters are monotonic engagement counters. They carry no invariant
// beyond non-negativity.
type EventCounters struct {
	Views  int64 `bson:"views" json:"views"`
	Shares int64 `bson:"shares" json:"shares"`
	Likes  int64 `bson:"likes" json:"likes"`
}

// Event is an aggregate root. The attendees list is embedded in the event
// document and is only ever mutated through the guard.
type Event struct {
	ID               uuid.UUID     `bson:"_id" json:"id"`
	Title            string        `bson:"title" json:"title" validate:"required,max=100"`
	Description      string        `bson:"description" json:"description" validate:"required,max=1000"`
	Date             time.Time     `bson:"date" json:"date" validate:"required"`
	EndDate          *time.Time    `bson:"end_date,omitempty" json:"endDate,omitempty"`
	Location         string        `bson:"location" json:"location" validate:"required,max=200"`
	Coordinates      *Coordinates  `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Category         string        `bson:"category" json:"category" validate:"required,oneof=cultural technology sports community business education"`
	OrganizerID      uuid.UUID     `bson:"organizer_id" json:"organizerId"`
	Attendees        []Attendee    `bson:"attendees" json:"attendees"`
	MaxAttendees     *int          `bson:"max_attendees,omitempty" json:"maxAttendees,omitempty" validate:"omitempty,min=1,max=10000"`
	Price            float64       `bson:"price" json:"price" validate:"gte=0"`
	Currency         string        `bson:"currency" json:"currency" validate:"oneof=MAD EUR USD"`
	Images           []Image       `bson:"images,omitempty" json:"images,omitempty"`
	Tags             []string      `bson:"tags,omitempty" json:"tags,omitempty"`
	Status           string        `bson:"status" json:"status" validate:"oneof=draft published cancelled completed"`
	IsPublic         bool          `bson:"is_public" json:"isPublic"`
	RequiresApproval bool          `bson:"requires_approval" json:"requiresApproval"`
	Contact          ContactInfo   `bson:"contact,omitempty" json:"contact,omitempty"`
	Counters         EventCounters `bson:"counters" json:"counters"`

	// Derived from the attendees list, recomputed after every mutation.
	AttendeeCount  int  `bson:"attendee_count" json:"attendeeCount"`
	AvailableSpots *int `bson:"available_spots,omitempty" json:"availableSpots,omitempty"`
	IsFull         bool `bson:"is_full" json:"isFull"`

	Revision  int64     `bson:"revision" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// RegisteredAttendee reports whether userID currently holds a registered
// entry in the attendee list.
func (e *Event) RegisteredAttendee(userID uuid.UUID) bool {
	for _, a := range e.Attendees {
		if a.UserID == userID && a.Status == AttendeeRegistered {
			return true
		}
	}
	return false
}

// Validate checks all field and cross-field constraints, returning a
// ValidationError that enumerates every violation.
func (e *Event) Validate(now time.Time) error {
	violations := structViolations(e)
	if !e.Date.IsZero() && !e.Date.After(now) {
		violations = append(violations, "date: must be in the future")
	}
	if e.EndDate != nil && !e.EndDate.After(e.Date) {
		violations = append(violations, "endDate: must be after start date")
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
