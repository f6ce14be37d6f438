package domain

import (
	"github.com/google/uuid"
)

// Reminder represents a saved location-triggered note
type Reminder struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// NewReminder creates a reminder with a freshly generated id
func NewReminder(title, description, location string, latitude, longitude float64) Reminder {
	return Reminder{
		ID:          generateID(),
		Title:       title,
		Description: description,
		Location:    location,
		Latitude:    latitude,
		Longitude:   longitude,
	}
}

// EnsureID assigns an id if the reminder does not have one yet.
// An id that is already set is never replaced.
func (r *Reminder) EnsureID() {
	if r.ID == "" {
		r.ID = generateID()
	}
}

func generateID() string {
	return uuid.New().String()
}
