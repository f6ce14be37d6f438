package memory_test

import (
	"context"
	"testing"

	"location-reminder/src/domain"
	"location-reminder/src/infrastructure/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := memory.NewReminderStore()

	r := domain.NewReminder("title", "desc", "loc", 10, 20)
	require.NoError(t, store.SaveReminder(ctx, &r))

	got, err := store.GetReminderByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, *got)

	_, err = store.GetReminderByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrReminderNotFound)
}

func TestReminderStore_SaveAssignsID(t *testing.T) {
	store := memory.NewReminderStore()

	r := domain.Reminder{Title: "no id"}
	require.NoError(t, store.SaveReminder(context.Background(), &r))
	assert.NotEmpty(t, r.ID)
}

func TestReminderStore_ReplaceKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewReminderStore()

	first := domain.Reminder{ID: "1", Title: "first"}
	second := domain.Reminder{ID: "2", Title: "second"}
	require.NoError(t, store.SaveReminder(ctx, &first))
	require.NoError(t, store.SaveReminder(ctx, &second))

	updated := domain.Reminder{ID: "1", Title: "updated"}
	require.NoError(t, store.SaveReminder(ctx, &updated))

	reminders, err := store.GetReminders(ctx)
	require.NoError(t, err)
	require.Len(t, reminders, 2)
	assert.Equal(t, "updated", reminders[0].Title)
	assert.Equal(t, "second", reminders[1].Title)
}

func TestReminderStore_DeleteAll(t *testing.T) {
	ctx := context.Background()
	store := memory.NewReminderStore()

	r := domain.NewReminder("title", "", "loc", 0, 0)
	require.NoError(t, store.SaveReminder(ctx, &r))
	require.NoError(t, store.DeleteAllReminders(ctx))

	reminders, err := store.GetReminders(ctx)
	require.NoError(t, err)
	assert.NotNil(t, reminders)
	assert.Empty(t, reminders)
}

func TestReminderStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := memory.NewReminderStore()
	_, err := store.GetReminders(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	r := domain.NewReminder("title", "", "loc", 0, 0)
	assert.ErrorIs(t, store.SaveReminder(ctx, &r), context.Canceled)
}
