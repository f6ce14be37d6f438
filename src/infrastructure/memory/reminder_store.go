package memory

import (
	"context"
	"sync"

	"location-reminder/src/domain"
)

// ReminderStore keeps reminders in process memory. It is used when no
// database is configured and as the store in repository tests.
type ReminderStore struct {
	mu    sync.RWMutex
	order []string
	rows  map[string]domain.Reminder
}

var _ domain.ReminderStore = (*ReminderStore)(nil)

// NewReminderStore creates an empty store
func NewReminderStore() *ReminderStore {
	return &ReminderStore{rows: make(map[string]domain.Reminder)}
}

func (s *ReminderStore) GetReminders(ctx context.Context) ([]domain.Reminder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	reminders := make([]domain.Reminder, 0, len(s.order))
	for _, id := range s.order {
		reminders = append(reminders, s.rows[id])
	}
	return reminders, nil
}

func (s *ReminderStore) GetReminderByID(ctx context.Context, id string) (*domain.Reminder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rows[id]
	if !ok {
		return nil, domain.ErrReminderNotFound
	}
	return &r, nil
}

// SaveReminder replaces an existing row in place so listing order is stable
func (s *ReminderStore) SaveReminder(ctx context.Context, reminder *domain.Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	reminder.EnsureID()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rows[reminder.ID]; !exists {
		s.order = append(s.order, reminder.ID)
	}
	s.rows[reminder.ID] = *reminder
	return nil
}

func (s *ReminderStore) DeleteAllReminders(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.rows = make(map[string]domain.Reminder)
	return nil
}
