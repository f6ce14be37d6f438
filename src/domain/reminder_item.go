package domain

import (
	"errors"
	"strings"
)

var (
	ErrEnterTitle       = errors.New("err_enter_title")
	ErrSelectLocation   = errors.New("err_select_location")
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
)

// validationMessages holds the user-facing text for each validation error
var validationMessages = map[error]string{
	ErrEnterTitle:       "Please enter title",
	ErrSelectLocation:   "Please select location",
	ErrInvalidLatitude:  "Latitude must be between -90 and 90",
	ErrInvalidLongitude: "Longitude must be between -180 and 180",
}

// ReminderDataItem is the user-entered form of a reminder, as shown on the
// list and save screens. Pointer fields distinguish "not entered" from zero.
type ReminderDataItem struct {
	ID          string   `json:"id"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// ValidateEnteredData checks the fields a user must provide before saving
func ValidateEnteredData(item ReminderDataItem) error {
	if item.Title == nil || strings.TrimSpace(*item.Title) == "" {
		return ErrEnterTitle
	}
	if item.Location == nil || strings.TrimSpace(*item.Location) == "" {
		return ErrSelectLocation
	}
	// a location label without coordinates cannot back a geofence
	if item.Latitude == nil || item.Longitude == nil {
		return ErrSelectLocation
	}
	if *item.Latitude < -90 || *item.Latitude > 90 {
		return ErrInvalidLatitude
	}
	if *item.Longitude < -180 || *item.Longitude > 180 {
		return ErrInvalidLongitude
	}
	return nil
}

// ValidationMessage returns the text shown to the user for a validation error
func ValidationMessage(err error) string {
	for target, msg := range validationMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return err.Error()
}

// ToReminder converts a validated item into a Reminder, generating an id if needed
func (item ReminderDataItem) ToReminder() Reminder {
	r := Reminder{
		ID:          item.ID,
		Title:       deref(item.Title),
		Description: deref(item.Description),
		Location:    deref(item.Location),
	}
	if item.Latitude != nil {
		r.Latitude = *item.Latitude
	}
	if item.Longitude != nil {
		r.Longitude = *item.Longitude
	}
	r.EnsureID()
	return r
}

// NewReminderDataItem builds the presentation form of a stored reminder
func NewReminderDataItem(r Reminder) ReminderDataItem {
	title, description, location := r.Title, r.Description, r.Location
	lat, lng := r.Latitude, r.Longitude
	return ReminderDataItem{
		ID:          r.ID,
		Title:       &title,
		Description: &description,
		Location:    &location,
		Latitude:    &lat,
		Longitude:   &lng,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
