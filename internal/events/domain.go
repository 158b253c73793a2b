// internal/events/domain.go
package events

import (
	"time"

	"agadirhub/internal/domain"
)

// CreateRequest carries the fields a client may set when creating an event.
// The organizer is always the acting user.
type CreateRequest struct {
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	Date             time.Time           `json:"date"`
	EndDate          *time.Time          `json:"endDate,omitempty"`
	Location         string              `json:"location"`
	Coordinates      *domain.Coordinates `json:"coordinates,omitempty"`
	Category         string              `json:"category"`
	MaxAttendees     *int                `json:"maxAttendees,omitempty"`
	Price            float64             `json:"price"`
	Currency         string              `json:"currency"`
	Images           []domain.Image      `json:"images,omitempty"`
	Tags             []string            `json:"tags,omitempty"`
	Status           string              `json:"status"`
	IsPublic         *bool               `json:"isPublic,omitempty"`
	RequiresApproval bool                `json:"requiresApproval"`
	Contact          domain.ContactInfo  `json:"contact,omitempty"`
}

// UpdateRequest carries a partial event edit; nil fields are left unchanged.
type UpdateRequest struct {
	Title        *string             `json:"title,omitempty"`
	Description  *string             `json:"description,omitempty"`
	Date         *time.Time          `json:"date,omitempty"`
	EndDate      *time.Time          `json:"endDate,omitempty"`
	Location     *string             `json:"location,omitempty"`
	Coordinates  *domain.Coordinates `json:"coordinates,omitempty"`
	Category     *string             `json:"category,omitempty"`
	MaxAttendees *int                `json:"maxAttendees,omitempty"`
	Price        *float64            `json:"price,omitempty"`
	Currency     *string             `json:"currency,omitempty"`
	Tags         []string            `json:"tags,omitempty"`
	Status       *string             `json:"status,omitempty"`
	IsPublic     *bool               `json:"isPublic,omitempty"`
}

// ListRequest narrows and pages the public event listing.
type ListRequest struct {
	Page      int
	Limit     int
	Category  string
	City      string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	SortBy    string
	SortDesc  bool
}
