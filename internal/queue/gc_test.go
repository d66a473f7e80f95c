package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type purgeFunc func(ctx context.Context, retention time.Duration) (int, error)

func (f purgeFunc) PurgeOlderThan(ctx context.Context, retention time.Duration) (int, error) {
	if f == nil {
		return 0, nil
	}
	return f(ctx, retention)
}

func TestGarbageCollector_NilPurgerIsNoop(t *testing.T) {
	t.Parallel()

	gc := NewGarbageCollector(nil, time.Minute, 24*time.Hour)
	if err := gc.collect(context.Background()); err != nil {
		t.Errorf("collect with nil purger: %v", err)
	}
}

func TestGarbageCollector_PassesRetention(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	purger := purgeFunc(func(ctx context.Context, retention time.Duration) (int, error) {
		calls.Add(1)
		if retention != 24*time.Hour {
			t.Errorf("retention = %v, want 24h", retention)
		}
		return 3, nil
	})

	gc := NewGarbageCollector(purger, time.Minute, 24*time.Hour)
	if err := gc.collect(context.Background()); err != nil {
		t.Errorf("collect: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("PurgeOlderThan called %d times, want 1", calls.Load())
	}
}

func TestGarbageCollector_SurfacesPurgeError(t *testing.T) {
	t.Parallel()

	purger := purgeFunc(func(context.Context, time.Duration) (int, error) {
		return 0, errors.New("channel closed")
	})

	gc := NewGarbageCollector(purger, time.Minute, time.Hour)
	if err := gc.collect(context.Background()); err == nil {
		t.Error("expected error from collect")
	}
}

func TestGarbageCollector_StartStopsOnCancel(t *testing.T) {
	t.Parallel()

	gc := NewGarbageCollector(purgeFunc(nil), 24*time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := gc.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Start = %v, want context.Canceled", err)
	}
}

func TestGarbageCollector_StartKeepsRunningAfterPurgeError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	purger := purgeFunc(func(context.Context, time.Duration) (int, error) {
		calls.Add(1)
		return 0, errors.New("transient")
	})

	gc := NewGarbageCollector(purger, 5*time.Millisecond, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := gc.Start(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Start = %v, want context.DeadlineExceeded", err)
	}
	if calls.Load() < 2 {
		t.Errorf("PurgeOlderThan called %d times, want at least 2", calls.Load())
	}
}
