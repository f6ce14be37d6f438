package repository

import (
	"context"

	"location-reminder/src/domain"
	"location-reminder/src/result"
)

// ReminderNotFoundMessage is the Error message for an id with no reminder
const ReminderNotFoundMessage = "Reminder not found!"

// ReminderDataSource is the main entry point for accessing reminders data
type ReminderDataSource interface {
	GetReminders(ctx context.Context) result.Result[[]domain.Reminder]
	SaveReminder(ctx context.Context, reminder domain.Reminder) error
	GetReminder(ctx context.Context, id string) result.Result[domain.Reminder]
	DeleteAllReminders(ctx context.Context) error
}
