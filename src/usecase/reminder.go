package usecase

import (
	"context"
	"errors"
	"fmt"

	"location-reminder/src/domain"
	"location-reminder/src/geofence"
	"location-reminder/src/repository"
)

var (
	ErrReminderNotFound = errors.New(repository.ReminderNotFoundMessage)
)

// ReminderListState is what the list screen renders after loading
type ReminderListState struct {
	Items      []domain.ReminderDataItem
	ShowNoData bool
	// SnackBar carries the error message when loading failed
	SnackBar string
}

// ReminderUsecase defines the reminder screens' business logic
type ReminderUsecase interface {
	LoadReminders(ctx context.Context) ReminderListState
	GetReminder(ctx context.Context, id string) (*domain.ReminderDataItem, error)
	ValidateEnteredData(item domain.ReminderDataItem) error
	ValidateAndSaveReminder(ctx context.Context, item domain.ReminderDataItem) (*domain.ReminderDataItem, error)
	DeleteAllReminders(ctx context.Context) error
	TriggeredReminders(ctx context.Context, lat, lng float64) ([]domain.ReminderDataItem, error)
}

type reminderUsecase struct {
	dataSource repository.ReminderDataSource
	registry   geofence.Registry
}

// NewReminderUsecase creates a new reminder usecase
func NewReminderUsecase(dataSource repository.ReminderDataSource, registry geofence.Registry) ReminderUsecase {
	return &reminderUsecase{
		dataSource: dataSource,
		registry:   registry,
	}
}

// LoadReminders fetches every reminder and maps the result onto the list state
func (u *reminderUsecase) LoadReminders(ctx context.Context) ReminderListState {
	res := u.dataSource.GetReminders(ctx)
	reminders, ok := res.Data()
	if !ok {
		return ReminderListState{ShowNoData: true, SnackBar: res.Message()}
	}

	items := make([]domain.ReminderDataItem, 0, len(reminders))
	for _, r := range reminders {
		items = append(items, domain.NewReminderDataItem(r))
	}

	return ReminderListState{
		Items:      items,
		ShowNoData: len(items) == 0,
	}
}

// GetReminder retrieves a reminder by ID for the detail screen
func (u *reminderUsecase) GetReminder(ctx context.Context, id string) (*domain.ReminderDataItem, error) {
	res := u.dataSource.GetReminder(ctx, id)
	if res.IsError() {
		if res.Message() == repository.ReminderNotFoundMessage {
			return nil, ErrReminderNotFound
		}
		_, err := res.Unwrap()
		return nil, err
	}

	reminder, _ := res.Data()
	item := domain.NewReminderDataItem(reminder)
	return &item, nil
}

// ValidateEnteredData checks the user's input before saving
func (u *reminderUsecase) ValidateEnteredData(item domain.ReminderDataItem) error {
	return domain.ValidateEnteredData(item)
}

// ValidateAndSaveReminder registers the reminder's geofence and then saves it.
// If the save fails the registry is put back the way it was: a replaced fence
// gets its previous position again, a new one is removed.
func (u *reminderUsecase) ValidateAndSaveReminder(ctx context.Context, item domain.ReminderDataItem) (*domain.ReminderDataItem, error) {
	if err := u.ValidateEnteredData(item); err != nil {
		return nil, err
	}

	reminder := item.ToReminder()

	var previous *geofence.Geofence
	if u.registry != nil {
		if item.ID != "" {
			prev, err := u.previousFence(ctx, item.ID)
			if err != nil {
				return nil, err
			}
			previous = prev
		}

		fence := geofence.Geofence{
			RequestID: reminder.ID,
			Latitude:  reminder.Latitude,
			Longitude: reminder.Longitude,
		}
		if err := u.registry.Add(ctx, fence); err != nil {
			return nil, fmt.Errorf("add geofence: %w", err)
		}
	}

	if err := u.dataSource.SaveReminder(ctx, reminder); err != nil {
		if u.registry != nil {
			if previous != nil {
				_ = u.registry.Add(ctx, *previous)
			} else {
				_ = u.registry.Remove(ctx, reminder.ID)
			}
		}
		return nil, err
	}

	saved := domain.NewReminderDataItem(reminder)
	return &saved, nil
}

// previousFence returns the fence of the stored reminder with the id, or nil
// when no such reminder exists yet
func (u *reminderUsecase) previousFence(ctx context.Context, id string) (*geofence.Geofence, error) {
	existing, err := u.GetReminder(ctx, id)
	if errors.Is(err, ErrReminderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load reminder %s: %w", id, err)
	}
	return &geofence.Geofence{
		RequestID: existing.ID,
		Latitude:  *existing.Latitude,
		Longitude: *existing.Longitude,
	}, nil
}

// DeleteAllReminders clears the reminders and their geofences
func (u *reminderUsecase) DeleteAllReminders(ctx context.Context) error {
	if err := u.dataSource.DeleteAllReminders(ctx); err != nil {
		return err
	}
	if u.registry != nil {
		if err := u.registry.RemoveAll(ctx); err != nil {
			return fmt.Errorf("remove geofences: %w", err)
		}
	}
	return nil
}

// TriggeredReminders returns the reminders whose geofence contains the point.
// Fences left behind by reminders that no longer exist are dropped.
func (u *reminderUsecase) TriggeredReminders(ctx context.Context, lat, lng float64) ([]domain.ReminderDataItem, error) {
	items := make([]domain.ReminderDataItem, 0)
	if u.registry == nil {
		return items, nil
	}

	fences, err := u.registry.Containing(ctx, lat, lng)
	if err != nil {
		return nil, err
	}

	var stale []string
	for _, fence := range fences {
		item, err := u.GetReminder(ctx, fence.RequestID)
		if errors.Is(err, ErrReminderNotFound) {
			stale = append(stale, fence.RequestID)
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if len(stale) > 0 {
		_ = u.registry.Remove(ctx, stale...)
	}
	return items, nil
}
