// Package fake provides an in-memory ReminderDataSource for use-case and handler tests.
package fake

import (
	"context"
	"errors"
	"sync"

	"location-reminder/src/domain"
	"location-reminder/src/repository"
	"location-reminder/src/result"
)

const (
	GetRemindersErrorMessage = "Error retrieving reminders"
	GetReminderErrorMessage  = "An error occurred!"
)

// ErrDataSource is returned by the write operations while the error flag is set
var ErrDataSource = errors.New("data source error")

// DataSource is a test double for the local repository
type DataSource struct {
	mu                sync.Mutex
	reminders         []domain.Reminder
	shouldReturnError bool
}

var _ repository.ReminderDataSource = (*DataSource)(nil)

// NewDataSource creates a fake seeded with the given reminders
func NewDataSource(reminders ...domain.Reminder) *DataSource {
	return &DataSource{reminders: append([]domain.Reminder{}, reminders...)}
}

// SetReturnError makes every following call fail while value is true
func (f *DataSource) SetReturnError(value bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shouldReturnError = value
}

func (f *DataSource) GetReminders(ctx context.Context) result.Result[[]domain.Reminder] {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.shouldReturnError {
		return result.Error[[]domain.Reminder](GetRemindersErrorMessage)
	}
	return result.Success(append([]domain.Reminder{}, f.reminders...))
}

func (f *DataSource) SaveReminder(ctx context.Context, reminder domain.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.shouldReturnError {
		return ErrDataSource
	}

	reminder.EnsureID()
	for i := range f.reminders {
		if f.reminders[i].ID == reminder.ID {
			f.reminders[i] = reminder
			return nil
		}
	}
	f.reminders = append(f.reminders, reminder)
	return nil
}

func (f *DataSource) GetReminder(ctx context.Context, id string) result.Result[domain.Reminder] {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.shouldReturnError {
		return result.Error[domain.Reminder](GetReminderErrorMessage)
	}

	for _, r := range f.reminders {
		if r.ID == id {
			return result.Success(r)
		}
	}
	return result.Error[domain.Reminder](repository.ReminderNotFoundMessage)
}

func (f *DataSource) DeleteAllReminders(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.shouldReturnError {
		return ErrDataSource
	}
	f.reminders = nil
	return nil
}
