package geofence_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"location-reminder/src/geofence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 緯度方向に約 meters メートル北の地点
func north(lat, meters float64) float64 {
	return lat + meters/111195.0
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 0, geofence.Distance(35.0, 139.0, 35.0, 139.0), 1e-6)
	// 緯度1度はおよそ111.2km
	assert.InDelta(t, 111195, geofence.Distance(0, 0, 1, 0), 10)
	// 東京駅から横浜駅までおよそ27km
	assert.InDelta(t, 27000, geofence.Distance(35.6812, 139.7671, 35.4658, 139.6223), 1500)
}

func TestGeofence_Contains(t *testing.T) {
	fence := geofence.Geofence{RequestID: "r", Latitude: 35.0, Longitude: 139.0, RadiusMeters: geofence.RadiusInMeters}

	assert.True(t, fence.Contains(35.0, 139.0))
	assert.True(t, fence.Contains(north(35.0, 99), 139.0))
	assert.False(t, fence.Contains(north(35.0, 101), 139.0))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not available", geofence.ErrNotAvailable, "Geofence service is not available now. Go to Settings>Location>Mode and choose High accuracy."},
		{"too many geofences", geofence.ErrTooManyGeofences, "Your app has registered too many geofences."},
		{"too many pending intents", geofence.ErrTooManyPendingIntents, "You have provided too many PendingIntents to the addGeofences() call."},
		{"wrapped", fmt.Errorf("add geofence: %w", geofence.ErrTooManyGeofences), "Your app has registered too many geofences."},
		{"unknown", errors.New("other"), "Unknown error: the Geofence service is not available now."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, geofence.ErrorMessage(tt.err))
		})
	}
}

func TestNotAvailable(t *testing.T) {
	cause := errors.New("connection reset")
	err := geofence.NotAvailable(cause)

	assert.ErrorIs(t, err, geofence.ErrNotAvailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, geofence.ErrTooManyGeofences)

	var gerr *geofence.Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, geofence.StatusNotAvailable, gerr.Code)
}

func TestMemoryRegistry_Containing(t *testing.T) {
	ctx := context.Background()
	reg := geofence.NewMemoryRegistry(0, 0)

	require.NoError(t, reg.Add(ctx,
		geofence.Geofence{RequestID: "near", Latitude: 35.0, Longitude: 139.0},
		geofence.Geofence{RequestID: "far", Latitude: 36.0, Longitude: 139.0},
	))

	t.Run("100m以内は発火する", func(t *testing.T) {
		fences, err := reg.Containing(ctx, north(35.0, 50), 139.0)
		require.NoError(t, err)
		require.Len(t, fences, 1)
		assert.Equal(t, "near", fences[0].RequestID)
		assert.Equal(t, geofence.RadiusInMeters, fences[0].RadiusMeters)
	})

	t.Run("100mより外は発火しない", func(t *testing.T) {
		fences, err := reg.Containing(ctx, north(35.0, 150), 139.0)
		require.NoError(t, err)
		assert.Empty(t, fences)
	})

	t.Run("近い順に返す", func(t *testing.T) {
		require.NoError(t, reg.Add(ctx, geofence.Geofence{RequestID: "nearer", Latitude: north(35.0, 60), Longitude: 139.0}))

		fences, err := reg.Containing(ctx, north(35.0, 55), 139.0)
		require.NoError(t, err)
		require.Len(t, fences, 2)
		assert.Equal(t, "nearer", fences[0].RequestID)
		assert.Equal(t, "near", fences[1].RequestID)
	})
}

func TestMemoryRegistry_Limits(t *testing.T) {
	ctx := context.Background()

	t.Run("101件目は拒否される", func(t *testing.T) {
		reg := geofence.NewMemoryRegistry(geofence.RadiusInMeters, geofence.MaxGeofences)
		for i := 0; i < geofence.MaxGeofences; i++ {
			require.NoError(t, reg.Add(ctx, geofence.Geofence{RequestID: fmt.Sprintf("r%d", i)}))
		}

		err := reg.Add(ctx, geofence.Geofence{RequestID: "one-too-many"})
		assert.ErrorIs(t, err, geofence.ErrTooManyGeofences)
		assert.Equal(t, geofence.MaxGeofences, reg.Len())

		// 既存IDの置き換えは上限に数えない
		assert.NoError(t, reg.Add(ctx, geofence.Geofence{RequestID: "r0", Latitude: 1}))
	})

	t.Run("1回のリクエストは5件まで", func(t *testing.T) {
		reg := geofence.NewMemoryRegistry(0, 0)
		fences := make([]geofence.Geofence, geofence.MaxPerRequest+1)
		for i := range fences {
			fences[i] = geofence.Geofence{RequestID: fmt.Sprintf("r%d", i)}
		}

		assert.ErrorIs(t, reg.Add(ctx, fences...), geofence.ErrTooManyPendingIntents)
		assert.Equal(t, 0, reg.Len())
		assert.NoError(t, reg.Add(ctx, fences[:geofence.MaxPerRequest]...))
	})

	t.Run("同じリクエスト内の重複IDは1件と数える", func(t *testing.T) {
		reg := geofence.NewMemoryRegistry(geofence.RadiusInMeters, 1)

		err := reg.Add(ctx,
			geofence.Geofence{RequestID: "dup", Latitude: 1},
			geofence.Geofence{RequestID: "dup", Latitude: 2},
		)
		require.NoError(t, err)
		assert.Equal(t, 1, reg.Len())

		fences, err := reg.Containing(ctx, 2, 0)
		require.NoError(t, err)
		require.Len(t, fences, 1)
		assert.Equal(t, 2.0, fences[0].Latitude)
	})
}

func TestMemoryRegistry_Remove(t *testing.T) {
	ctx := context.Background()
	reg := geofence.NewMemoryRegistry(0, 0)
	require.NoError(t, reg.Add(ctx,
		geofence.Geofence{RequestID: "a"},
		geofence.Geofence{RequestID: "b"},
		geofence.Geofence{RequestID: "c"},
	))

	require.NoError(t, reg.Remove(ctx, "a", "unknown"))
	assert.Equal(t, 2, reg.Len())

	require.NoError(t, reg.RemoveAll(ctx))
	assert.Equal(t, 0, reg.Len())
}

func TestMemoryRegistry_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reg := geofence.NewMemoryRegistry(0, 0)
	err := reg.Add(ctx, geofence.Geofence{RequestID: "a"})
	assert.ErrorIs(t, err, geofence.ErrNotAvailable)
	assert.ErrorIs(t, err, context.Canceled)
}
