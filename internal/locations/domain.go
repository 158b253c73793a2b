// internal/locations/domain.go
package locations

import (
	"agadirhub/internal/domain"
)

// CreateRequest carries the fields an administrator sets when registering
// a location.
type CreateRequest struct {
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Type         string                `json:"type"`
	Coordinates  domain.Coordinates    `json:"coordinates"`
	Address      domain.Address        `json:"address"`
	Contact      domain.ContactInfo    `json:"contact,omitempty"`
	Hours        domain.OperatingHours `json:"hours,omitempty"`
	Amenities    []string              `json:"amenities,omitempty"`
	Images       []domain.Image        `json:"images,omitempty"`
	IsVerified   bool                  `json:"isVerified"`
	WorldCup2030 domain.WorldCupVenue  `json:"worldCup2030"`
}

// UpdateRequest carries a partial location edit; nil fields are left
// unchanged.
type UpdateRequest struct {
	Name         *string                `json:"name,omitempty"`
	Description  *string                `json:"description,omitempty"`
	Type         *string                `json:"type,omitempty"`
	Coordinates  *domain.Coordinates    `json:"coordinates,omitempty"`
	Address      *domain.Address        `json:"address,omitempty"`
	Contact      *domain.ContactInfo    `json:"contact,omitempty"`
	Hours        *domain.OperatingHours `json:"hours,omitempty"`
	Amenities    []string               `json:"amenities,omitempty"`
	IsVerified   *bool                  `json:"isVerified,omitempty"`
	IsActive     *bool                  `json:"isActive,omitempty"`
	WorldCup2030 *domain.WorldCupVenue  `json:"worldCup2030,omitempty"`
}

// ListRequest narrows and pages the public location listing.
type ListRequest struct {
	Page       int
	Limit      int
	Type       string
	Search     string
	Latitude   float64
	Longitude  float64
	RadiusKm   float64
	VenuesOnly bool
	SortBy     string
	SortDesc   bool
}

// ReviewRequest is a single review submission.
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
