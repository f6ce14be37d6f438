package fake_test

import (
	"context"
	"testing"

	"location-reminder/src/domain"
	"location-reminder/src/repository"
	"location-reminder/src/repository/fake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataSource(t *testing.T) {
	ctx := context.Background()
	seed := domain.Reminder{ID: "1", Title: "title", Location: "loc"}
	ds := fake.NewDataSource(seed)

	list, ok := ds.GetReminders(ctx).Data()
	require.True(t, ok)
	assert.Equal(t, []domain.Reminder{seed}, list)

	got, ok := ds.GetReminder(ctx, "1").Data()
	require.True(t, ok)
	assert.Equal(t, seed, got)

	missing := ds.GetReminder(ctx, "2")
	require.True(t, missing.IsError())
	assert.Equal(t, repository.ReminderNotFoundMessage, missing.Message())

	require.NoError(t, ds.DeleteAllReminders(ctx))
	list, ok = ds.GetReminders(ctx).Data()
	require.True(t, ok)
	assert.Empty(t, list)
}

func TestDataSource_ReturnError(t *testing.T) {
	ctx := context.Background()
	ds := fake.NewDataSource(domain.Reminder{ID: "1", Title: "title"})
	ds.SetReturnError(true)

	list := ds.GetReminders(ctx)
	require.True(t, list.IsError())
	assert.Equal(t, "Error retrieving reminders", list.Message())

	// 存在するIDでも失敗する
	one := ds.GetReminder(ctx, "1")
	require.True(t, one.IsError())
	assert.Equal(t, "An error occurred!", one.Message())

	assert.ErrorIs(t, ds.SaveReminder(ctx, domain.Reminder{ID: "2"}), fake.ErrDataSource)
	assert.ErrorIs(t, ds.DeleteAllReminders(ctx), fake.ErrDataSource)

	ds.SetReturnError(false)
	assert.True(t, ds.GetReminders(ctx).IsSuccess())
}
