package domain

import (
	"context"
	"errors"
)

// ErrReminderNotFound is returned by a ReminderStore when no row matches the id
var ErrReminderNotFound = errors.New("reminder not found")

// ReminderStore defines the local table operations for reminders
type ReminderStore interface {
	GetReminders(ctx context.Context) ([]Reminder, error)
	GetReminderByID(ctx context.Context, id string) (*Reminder, error)
	// SaveReminder inserts the reminder or replaces the row with the same id
	SaveReminder(ctx context.Context, reminder *Reminder) error
	DeleteAllReminders(ctx context.Context) error
}
