package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"location-reminder/src/domain"

	"github.com/sirupsen/logrus"
)

// DBTX is the subset of *sql.DB used by the store, so a transaction or a
// sqlmock connection can be passed in its place
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ReminderStore implements domain.ReminderStore on the reminders table
type ReminderStore struct {
	db     DBTX
	logger *logrus.Logger
}

var _ domain.ReminderStore = (*ReminderStore)(nil)

// NewReminderStore creates a new reminder store
func NewReminderStore(db DBTX, logger *logrus.Logger) *ReminderStore {
	return &ReminderStore{
		db:     db,
		logger: logger,
	}
}

// GetReminders returns every stored reminder in insertion order
func (s *ReminderStore) GetReminders(ctx context.Context) ([]domain.Reminder, error) {
	query := `
		SELECT id, title, description, location, latitude, longitude
		FROM reminders
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list reminders")
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	reminders := make([]domain.Reminder, 0)
	for rows.Next() {
		var r domain.Reminder
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Location, &r.Latitude, &r.Longitude); err != nil {
			s.logger.WithError(err).Error("Failed to scan reminder")
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}

	return reminders, nil
}

// GetReminderByID returns the reminder with the given id or domain.ErrReminderNotFound
func (s *ReminderStore) GetReminderByID(ctx context.Context, id string) (*domain.Reminder, error) {
	query := `
		SELECT id, title, description, location, latitude, longitude
		FROM reminders WHERE id = $1`

	var r domain.Reminder
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.Title, &r.Description, &r.Location, &r.Latitude, &r.Longitude,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReminderNotFound
		}
		s.logger.WithError(err).WithField("reminder_id", id).Error("Failed to get reminder by ID")
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}

	return &r, nil
}

// SaveReminder inserts the reminder, replacing any row that has the same id
func (s *ReminderStore) SaveReminder(ctx context.Context, reminder *domain.Reminder) error {
	reminder.EnsureID()

	query := `
		INSERT INTO reminders (id, title, description, location, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			location = EXCLUDED.location,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude`

	_, err := s.db.ExecContext(ctx, query,
		reminder.ID, reminder.Title, reminder.Description, reminder.Location,
		reminder.Latitude, reminder.Longitude,
	)
	if err != nil {
		s.logger.WithError(err).WithField("reminder_id", reminder.ID).Error("リマインダーの保存に失敗")
		return fmt.Errorf("failed to save reminder: %w", err)
	}

	s.logger.WithField("reminder_id", reminder.ID).Debug("リマインダーを保存しました")
	return nil
}

// DeleteAllReminders truncates the reminders table
func (s *ReminderStore) DeleteAllReminders(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reminders`)
	if err != nil {
		s.logger.WithError(err).Error("Failed to delete reminders")
		return fmt.Errorf("failed to delete reminders: %w", err)
	}

	if deleted, err := result.RowsAffected(); err == nil {
		s.logger.WithField("deleted", deleted).Info("すべてのリマインダーを削除しました")
	}

	return nil
}
