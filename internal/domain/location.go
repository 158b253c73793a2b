// internal/domain/location.go
package domain

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Location types recognised by the platform.
const (
	LocationTourism    = "tourism"
	LocationHistorical = "historical"
	LocationShopping   = "shopping"
	LocationSports     = "sports"
	LocationGovernment = "government"
	LocationHealthcare = "healthcare"
	LocationEducation  = "education"
	LocationTransport  = "transport"
)

// Review is an entry in a location's embedded review list. At most one
// review per user may exist.
type Review struct {
	UserID    uuid.UUID `bson:"user_id" json:"userId"`
	Rating    int       `bson:"rating" json:"rating"`
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Rating is the derived summary of a location's reviews.
type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

// Address is a location's postal address.
type Address struct {
	Street     string `bson:"street,omitempty" json:"street,omitempty"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postal_code,omitempty" json:"postalCode,omitempty"`
	Country    string `bson:"country" json:"country"`
}

// DayHours is an opening window for one weekday.
type DayHours struct {
	Open  string `bson:"open,omitempty" json:"open,omitempty"`
	Close string `bson:"close,omitempty" json:"close,omitempty"`
}

// OperatingHours maps each weekday to an opening window.
type OperatingHours struct {
	Monday    DayHours `bson:"monday,omitempty" json:"monday,omitempty"`
	Tuesday   DayHours `bson:"tuesday,omitempty" json:"tuesday,omitempty"`
	Wednesday DayHours `bson:"wednesday,omitempty" json:"wednesday,omitempty"`
	Thursday  DayHours `bson:"thursday,omitempty" json:"thursday,omitempty"`
	Friday    DayHours `bson:"friday,omitempty" json:"friday,omitempty"`
	Saturday  DayHours `bson:"saturday,omitempty" json:"saturday,omitempty"`
	Sunday    DayHours `bson:"sunday,omitempty" json:"sunday,omitempty"`
}

// LocationCounters are monotonic engagement counters.
type LocationCounters struct {
	Views    int64 `bson:"views" json:"views"`
	Checkins int64 `bson:"checkins" json:"checkins"`
}

// WorldCupVenue holds 2030 World Cup venue metadata.
type WorldCupVenue struct {
	IsVenue   bool   `bson:"is_venue" json:"isVenue"`
	Capacity  int    `bson:"capacity,omitempty" json:"capacity,omitempty"`
	VenueType string `bson:"venue_type,omitempty" json:"venueType,omitempty" validate:"omitempty,oneof=stadium training accommodation transport fan_zone"`
}

// Location is an aggregate root. The reviews list is embedded in the
// location document and is only ever mutated through the guard.
type Location struct {
	ID           uuid.UUID        `bson:"_id" json:"id"`
	Name         string           `bson:"name" json:"name" validate:"required,max=100"`
	Description  string           `bson:"description,omitempty" json:"description,omitempty" validate:"max=500"`
	Type         string           `bson:"type" json:"type" validate:"required,oneof=tourism historical shopping sports government healthcare education transport"`
	Coordinates  Coordinates      `bson:"coordinates" json:"coordinates" validate:"required"`
	Address      Address          `bson:"address" json:"address"`
	Contact      ContactInfo      `bson:"contact,omitempty" json:"contact,omitempty"`
	Hours        OperatingHours   `bson:"hours,omitempty" json:"hours,omitempty"`
	Amenities    []string         `bson:"amenities,omitempty" json:"amenities,omitempty" validate:"dive,oneof=parking wifi accessibility restrooms cafe gift_shop guided_tours"`
	Images       []Image          `bson:"images,omitempty" json:"images,omitempty"`
	Reviews      []Review         `bson:"reviews" json:"reviews"`
	Rating       Rating           `bson:"rating" json:"rating"`
	IsActive     bool             `bson:"is_active" json:"isActive"`
	IsVerified   bool             `bson:"is_verified" json:"isVerified"`
	Counters     LocationCounters `bson:"counters" json:"counters"`
	WorldCup2030 WorldCupVenue    `bson:"world_cup_2030" json:"worldCup2030"`

	Revision  int64     `bson:"revision" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ReviewedBy reports whether userID already has a review entry.
func (l *Location) ReviewedBy(userID uuid.UUID) bool {
	for _, r := range l.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// Validate checks all field constraints, returning a ValidationError that
// enumerates every violation.
func (l *Location) Validate() error {
	if violations := structViolations(l); len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// ValidateReview checks the constraints on a single review submission.
func ValidateReview(rating int, comment string) error {
	var violations []string
	if rating < 1 || rating > 5 {
		violations = append(violations, "rating: must be an integer between 1 and 5")
	}
	if utf8.RuneCountInString(comment) > 500 {
		violations = append(violations, "comment: cannot exceed 500 characters")
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
