package repository

import (
	"context"
	"errors"
	"fmt"

	"location-reminder/src/dispatch"
	"location-reminder/src/domain"
	"location-reminder/src/result"

	"github.com/sirupsen/logrus"
)

// RemindersLocalRepository implements ReminderDataSource on top of a local store.
// All store calls go through the dispatcher so they share one background context.
type RemindersLocalRepository struct {
	store      domain.ReminderStore
	dispatcher dispatch.Dispatcher
	logger     *logrus.Logger
}

var _ ReminderDataSource = (*RemindersLocalRepository)(nil)

// NewRemindersLocalRepository creates a repository; a nil dispatcher runs inline
func NewRemindersLocalRepository(store domain.ReminderStore, dispatcher dispatch.Dispatcher, logger *logrus.Logger) *RemindersLocalRepository {
	if dispatcher == nil {
		dispatcher = dispatch.Inline{}
	}
	return &RemindersLocalRepository{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// GetReminders returns Success with every reminder, or Error with the failure message
func (r *RemindersLocalRepository) GetReminders(ctx context.Context) result.Result[[]domain.Reminder] {
	var reminders []domain.Reminder
	err := r.dispatcher.Run(ctx, func(ctx context.Context) error {
		var err error
		reminders, err = r.store.GetReminders(ctx)
		return err
	})
	if err != nil {
		r.logger.WithError(err).Error("リマインダー一覧の取得に失敗")
		return result.Error[[]domain.Reminder](err.Error())
	}

	if reminders == nil {
		reminders = []domain.Reminder{}
	}
	return result.Success(reminders)
}

// SaveReminder inserts or replaces the reminder by id
func (r *RemindersLocalRepository) SaveReminder(ctx context.Context, reminder domain.Reminder) error {
	reminder.EnsureID()

	err := r.dispatcher.Run(ctx, func(ctx context.Context) error {
		return r.store.SaveReminder(ctx, &reminder)
	})
	if err != nil {
		r.logger.WithError(err).WithField("reminder_id", reminder.ID).Error("リマインダーの保存に失敗")
		return fmt.Errorf("save reminder %s: %w", reminder.ID, err)
	}

	r.logger.WithField("reminder_id", reminder.ID).Info("リマインダーを保存しました")
	return nil
}

// GetReminder returns Success with the reminder, or Error("Reminder not found!")
// when the id is unknown, or Error with the failure message otherwise
func (r *RemindersLocalRepository) GetReminder(ctx context.Context, id string) result.Result[domain.Reminder] {
	var reminder *domain.Reminder
	err := r.dispatcher.Run(ctx, func(ctx context.Context) error {
		var err error
		reminder, err = r.store.GetReminderByID(ctx, id)
		return err
	})

	switch {
	case errors.Is(err, domain.ErrReminderNotFound):
		return result.Error[domain.Reminder](ReminderNotFoundMessage)
	case err != nil:
		r.logger.WithError(err).WithField("reminder_id", id).Error("リマインダーの取得に失敗")
		return result.Error[domain.Reminder](err.Error())
	case reminder == nil:
		return result.Error[domain.Reminder](ReminderNotFoundMessage)
	}

	return result.Success(*reminder)
}

// DeleteAllReminders removes every reminder
func (r *RemindersLocalRepository) DeleteAllReminders(ctx context.Context) error {
	err := r.dispatcher.Run(ctx, func(ctx context.Context) error {
		return r.store.DeleteAllReminders(ctx)
	})
	if err != nil {
		r.logger.WithError(err).Error("リマインダーの全削除に失敗")
		return fmt.Errorf("delete all reminders: %w", err)
	}
	return nil
}
