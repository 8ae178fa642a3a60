package stream

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlink/mentorlink-api/pkg/backoff"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

func fastRetry() backoff.Policy {
	return backoff.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestWatchEmitsInitialSnapshot(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := Watch(ctx, hub, WatchOptions{Topic: "topic", Retry: fastRetry()}, func(context.Context) ([]int, error) {
		return []int{1, 2, 3}, nil
	})

	snapshot := requireSnapshot(t, ch)
	require.NoError(t, snapshot.Err)
	assert.Equal(t, []int{1, 2, 3}, snapshot.Data)
}

func TestWatchRefetchesOnSignal(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int64
	ch := Watch(ctx, hub, WatchOptions{Topic: "topic", Retry: fastRetry()}, func(context.Context) (int64, error) {
		return calls.Add(1), nil
	})

	first := requireSnapshot(t, ch)
	assert.Equal(t, int64(1), first.Data)

	hub.Publish("topic")

	second := requireSnapshot(t, ch)
	assert.Equal(t, int64(2), second.Data)
}

func TestWatchRetriesTransientFailures(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int64
	ch := Watch(ctx, hub, WatchOptions{Topic: "topic", Retry: fastRetry()}, func(context.Context) (string, error) {
		if calls.Add(1) < 3 {
			return "", appErrors.Transient(nil, "connection reset")
		}
		return "recovered", nil
	})

	snapshot := requireSnapshot(t, ch)
	require.NoError(t, snapshot.Err)
	assert.Equal(t, "recovered", snapshot.Data)
	assert.Equal(t, int64(3), calls.Load())
}

func TestWatchSurfacesPersistentFailure(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := Watch(ctx, hub, WatchOptions{Topic: "topic", Retry: fastRetry()}, func(context.Context) (string, error) {
		return "", appErrors.Transient(nil, "connection reset")
	})

	snapshot := requireSnapshot(t, ch)
	require.Error(t, snapshot.Err)
	assert.True(t, appErrors.IsRetryable(snapshot.Err))

	_, ok := <-ch
	assert.False(t, ok, "stream should close after a terminal error")
}

func TestWatchDoesNotRetryValidationErrors(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int64
	ch := Watch(ctx, hub, WatchOptions{Topic: "topic", Retry: fastRetry()}, func(context.Context) (string, error) {
		calls.Add(1)
		return "", appErrors.Validation("uid is required")
	})

	snapshot := requireSnapshot(t, ch)
	require.Error(t, snapshot.Err)
	assert.True(t, appErrors.IsValidation(snapshot.Err))
	assert.Equal(t, int64(1), calls.Load())
}

func TestWatchClosesOnContextCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	ch := Watch(ctx, hub, WatchOptions{Topic: "topic", Retry: fastRetry()}, func(context.Context) (int, error) {
		return 7, nil
	})

	requireSnapshot(t, ch)
	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestNullEmitsOnceAndCloses(t *testing.T) {
	ch := Null[*string]()

	snapshot, ok := <-ch
	require.True(t, ok)
	assert.Nil(t, snapshot.Data)
	assert.NoError(t, snapshot.Err)

	_, ok = <-ch
	assert.False(t, ok)
}

func requireSnapshot[T any](t *testing.T, ch <-chan Snapshot[T]) Snapshot[T] {
	t.Helper()
	select {
	case snapshot, ok := <-ch:
		require.True(t, ok, "stream closed before emitting")
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot[T]{}
	}
}
