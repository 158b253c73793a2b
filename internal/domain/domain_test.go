// internal/domain/domain_test.go
package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() *Event {
	return &Event{
		ID:          uuid.New(),
		Title:       "Timitar Festival",
		Description: "Amazigh music festival on the beachfront.",
		Date:        time.Now().Add(48 * time.Hour),
		Location:    "Place Al Amal, Agadir",
		Category:    CategoryCultural,
		OrganizerID: uuid.New(),
		Currency:    "MAD",
		Status:      EventPublished,
		IsPublic:    true,
	}
}

func TestEventValidateAccepts(t *testing.T) {
	require.NoError(t, validEvent().Validate(time.Now()))
}

func TestEventValidateEnumeratesAllViolations(t *testing.T) {
	end := time.Now().Add(-72 * time.Hour)
	ev := validEvent()
	ev.Title = ""
	ev.Category = "circus"
	ev.Price = -5
	ev.Date = time.Now().Add(-24 * time.Hour)
	ev.EndDate = &end

	err := ev.Validate(time.Now())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	joined := strings.Join(ve.Violations, "\n")
	assert.Contains(t, joined, "title: is required")
	assert.Contains(t, joined, "category: must be one of")
	assert.Contains(t, joined, "price:")
	assert.Contains(t, joined, "date: must be in the future")
	assert.Contains(t, joined, "endDate: must be after start date")
	assert.Len(t, ve.Violations, 5)
}

func TestEventValidateMaxAttendeesBounds(t *testing.T) {
	ev := validEvent()
	zero := 0
	ev.MaxAttendees = &zero
	assert.Error(t, ev.Validate(time.Now()))

	huge := 20000
	ev.MaxAttendees = &huge
	assert.Error(t, ev.Validate(time.Now()))

	fine := 150
	ev.MaxAttendees = &fine
	assert.NoError(t, ev.Validate(time.Now()))
}

func TestEventValidateSkipsDateCheckWithZeroClock(t *testing.T) {
	ev := validEvent()
	ev.Date = time.Now().Add(-24 * time.Hour)
	assert.NoError(t, ev.Validate(time.Time{}))
}

func TestEventContactValidation(t *testing.T) {
	ev := validEvent()
	ev.Contact = ContactInfo{Email: "not-an-email", Phone: "12345", Website: "not a url"}

	err := ev.Validate(time.Now())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	joined := strings.Join(ve.Violations, "\n")
	assert.Contains(t, joined, "contact.email")
	assert.Contains(t, joined, "contact.phone")
	assert.Contains(t, joined, "contact.website")
}

func TestRegisteredAttendeeIgnoresCancelled(t *testing.T) {
	userID := uuid.New()
	ev := validEvent()
	ev.Attendees = []Attendee{{UserID: userID, Status: AttendeeCancelled}}
	assert.False(t, ev.RegisteredAttendee(userID))

	ev.Attendees = append(ev.Attendees, Attendee{UserID: userID, Status: AttendeeRegistered})
	assert.True(t, ev.RegisteredAttendee(userID))
}

func TestLocationValidate(t *testing.T) {
	loc := &Location{
		ID:          uuid.New(),
		Name:        "Souk El Had",
		Type:        LocationShopping,
		Coordinates: Coordinates{Latitude: 30.41, Longitude: -9.58},
		IsActive:    true,
	}
	require.NoError(t, loc.Validate())

	loc.Type = "bazaar"
	loc.Amenities = []string{"wifi", "helipad"}
	err := loc.Validate()

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	joined := strings.Join(ve.Violations, "\n")
	assert.Contains(t, joined, "type: must be one of")
	assert.Contains(t, joined, "amenities")
}

func TestValidateReview(t *testing.T) {
	assert.NoError(t, ValidateReview(3, "fine"))
	assert.NoError(t, ValidateReview(1, ""))
	assert.NoError(t, ValidateReview(5, strings.Repeat("a", 500)))

	// The limit counts characters, so multi-byte text stays within it.
	assert.NoError(t, ValidateReview(4, strings.Repeat("م", 500)))
	assert.Error(t, ValidateReview(4, strings.Repeat("م", 501)))

	err := ValidateReview(0, strings.Repeat("a", 501))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Violations, 2)

	assert.Error(t, ValidateReview(6, ""))
}

func TestUserValidate(t *testing.T) {
	u := &User{
		ID:        uuid.New(),
		FirstName: "Omar",
		LastName:  "Idrissi",
		Email:     "omar@example.com",
		City:      "Agadir",
		Role:      RoleUser,
		Phone:     "0612345678",
	}
	require.NoError(t, u.Validate())

	u.Email = "omar-at-example"
	u.City = "Paris"
	u.Phone = "+212412345678"
	err := u.Validate()

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	joined := strings.Join(ve.Violations, "\n")
	assert.Contains(t, joined, "email: must be a valid email address")
	assert.Contains(t, joined, "city: must be one of")
	assert.Contains(t, joined, "phone: must be a valid Moroccan phone number")
}

func TestUserFullName(t *testing.T) {
	u := &User{FirstName: "Fatima", LastName: "Benali"}
	assert.Equal(t, "Fatima Benali", u.FullName())
}

func TestCoordinatesBounds(t *testing.T) {
	loc := &Location{
		ID:          uuid.New(),
		Name:        "Nowhere",
		Type:        LocationTourism,
		Coordinates: Coordinates{Latitude: 95, Longitude: -200},
	}
	err := loc.Validate()

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	joined := strings.Join(ve.Violations, "\n")
	assert.Contains(t, joined, "coordinates.latitude")
	assert.Contains(t, joined, "coordinates.longitude")
}
