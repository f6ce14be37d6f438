package dispatch_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"location-reminder/src/dispatch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInline(t *testing.T) {
	var d dispatch.Inline

	called := false
	err := d.Run(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	err = d.Run(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = d.Run(ctx, func(ctx context.Context) error {
		t.Fatal("canceled context must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSerial_RunsOneAtATime(t *testing.T) {
	s := dispatch.NewSerial()
	defer s.Close()

	var (
		running int32
		overlap int32
		total   int32
		wg      sync.WaitGroup
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Run(context.Background(), func(ctx context.Context) error {
				if atomic.AddInt32(&running, 1) > 1 {
					atomic.StoreInt32(&overlap, 1)
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&total, 1)
				atomic.AddInt32(&running, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(20), atomic.LoadInt32(&total))
	assert.Equal(t, int32(0), atomic.LoadInt32(&overlap))
}

func TestSerial_ReturnsErrorsAndPanics(t *testing.T) {
	s := dispatch.NewSerial()
	defer s.Close()

	want := errors.New("store failure")
	err := s.Run(context.Background(), func(ctx context.Context) error { return want })
	assert.ErrorIs(t, err, want)

	err = s.Run(context.Background(), func(ctx context.Context) error { panic("bad row") })
	require.Error(t, err)
	assert.Equal(t, "bad row", err.Error())

	// パニック後もワーカーは動き続ける
	assert.NoError(t, s.Run(context.Background(), func(ctx context.Context) error { return nil }))
}

func TestSerial_ContextCanceledWhileWaiting(t *testing.T) {
	s := dispatch.NewSerial()
	defer s.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = s.Run(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Run(ctx, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
}

func TestSerial_Closed(t *testing.T) {
	s := dispatch.NewSerial()
	s.Close()
	s.Close()

	err := s.Run(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, dispatch.ErrClosed)
}
