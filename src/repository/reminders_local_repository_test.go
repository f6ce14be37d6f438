package repository_test

import (
	"context"
	"errors"
	"testing"

	"location-reminder/src/dispatch"
	"location-reminder/src/domain"
	"location-reminder/src/infrastructure/memory"
	"location-reminder/src/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReminderStore は domain.ReminderStore のモック実装
type MockReminderStore struct {
	mock.Mock
}

func (m *MockReminderStore) GetReminders(ctx context.Context) ([]domain.Reminder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reminder), args.Error(1)
}

func (m *MockReminderStore) GetReminderByID(ctx context.Context, id string) (*domain.Reminder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderStore) SaveReminder(ctx context.Context, reminder *domain.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderStore) DeleteAllReminders(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// 両方のディスパッチャーで同じ振る舞いになることを確認する
func forEachDispatcher(t *testing.T, fn func(t *testing.T, repo *repository.RemindersLocalRepository)) {
	t.Run("inline", func(t *testing.T) {
		fn(t, repository.NewRemindersLocalRepository(memory.NewReminderStore(), dispatch.Inline{}, testLogger()))
	})
	t.Run("serial", func(t *testing.T) {
		worker := dispatch.NewSerial()
		t.Cleanup(worker.Close)
		fn(t, repository.NewRemindersLocalRepository(memory.NewReminderStore(), worker, testLogger()))
	})
}

func TestRemindersLocalRepository_SaveAndGet(t *testing.T) {
	forEachDispatcher(t, func(t *testing.T, repo *repository.RemindersLocalRepository) {
		ctx := context.Background()
		reminder := domain.NewReminder("title", "description", "location", 35.0, 139.0)

		require.NoError(t, repo.SaveReminder(ctx, reminder))

		res := repo.GetReminder(ctx, reminder.ID)
		require.True(t, res.IsSuccess())
		got, _ := res.Data()
		assert.Equal(t, reminder, got)
	})
}

func TestRemindersLocalRepository_GetReminderNotFound(t *testing.T) {
	forEachDispatcher(t, func(t *testing.T, repo *repository.RemindersLocalRepository) {
		res := repo.GetReminder(context.Background(), "unknown")

		require.True(t, res.IsError())
		assert.Equal(t, "Reminder not found!", res.Message())
	})
}

func TestRemindersLocalRepository_DeleteAllThenList(t *testing.T) {
	forEachDispatcher(t, func(t *testing.T, repo *repository.RemindersLocalRepository) {
		ctx := context.Background()
		require.NoError(t, repo.SaveReminder(ctx, domain.NewReminder("a", "", "x", 1, 1)))
		require.NoError(t, repo.SaveReminder(ctx, domain.NewReminder("b", "", "y", 2, 2)))

		res := repo.GetReminders(ctx)
		list, ok := res.Data()
		require.True(t, ok)
		assert.Len(t, list, 2)

		require.NoError(t, repo.DeleteAllReminders(ctx))

		res = repo.GetReminders(ctx)
		list, ok = res.Data()
		require.True(t, ok)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})
}

func TestRemindersLocalRepository_SaveReplacesByID(t *testing.T) {
	forEachDispatcher(t, func(t *testing.T, repo *repository.RemindersLocalRepository) {
		ctx := context.Background()
		reminder := domain.Reminder{ID: "same", Title: "old", Location: "x"}
		require.NoError(t, repo.SaveReminder(ctx, reminder))

		reminder.Title = "new"
		require.NoError(t, repo.SaveReminder(ctx, reminder))

		list, _ := repo.GetReminders(ctx).Data()
		require.Len(t, list, 1)
		assert.Equal(t, "new", list[0].Title)
	})
}

func TestRemindersLocalRepository_StoreErrors(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("database is locked")

	store := new(MockReminderStore)
	store.On("GetReminders", mock.Anything).Return(nil, storeErr)
	store.On("GetReminderByID", mock.Anything, "abc").Return(nil, storeErr)
	store.On("SaveReminder", mock.Anything, mock.AnythingOfType("*domain.Reminder")).Return(storeErr)
	store.On("DeleteAllReminders", mock.Anything).Return(storeErr)

	repo := repository.NewRemindersLocalRepository(store, nil, testLogger())

	list := repo.GetReminders(ctx)
	require.True(t, list.IsError())
	assert.Equal(t, "database is locked", list.Message())

	one := repo.GetReminder(ctx, "abc")
	require.True(t, one.IsError())
	assert.Equal(t, "database is locked", one.Message())

	assert.ErrorIs(t, repo.SaveReminder(ctx, domain.Reminder{ID: "abc"}), storeErr)
	assert.ErrorIs(t, repo.DeleteAllReminders(ctx), storeErr)

	store.AssertExpectations(t)
}

func TestRemindersLocalRepository_NilListBecomesEmpty(t *testing.T) {
	store := new(MockReminderStore)
	store.On("GetReminders", mock.Anything).Return(nil, nil)

	repo := repository.NewRemindersLocalRepository(store, dispatch.Inline{}, testLogger())

	list, ok := repo.GetReminders(context.Background()).Data()
	require.True(t, ok)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestRemindersLocalRepository_RecoversPanic(t *testing.T) {
	store := new(MockReminderStore)
	store.On("GetReminders", mock.Anything).Run(func(mock.Arguments) {
		panic("cursor closed")
	})

	repo := repository.NewRemindersLocalRepository(store, dispatch.Inline{}, testLogger())

	res := repo.GetReminders(context.Background())
	require.True(t, res.IsError())
	assert.Equal(t, "cursor closed", res.Message())
}
