package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishReachesSubscribers(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := hub.Subscribe(ctx, "topic-a")
	second := hub.Subscribe(ctx, "topic-a")
	other := hub.Subscribe(ctx, "topic-b")

	hub.Publish("topic-a")

	requireSignal(t, first)
	requireSignal(t, second)

	select {
	case <-other:
		t.Fatal("unrelated topic received a signal")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubCoalescesPendingSignals(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := hub.Subscribe(ctx, "topic")

	hub.Publish("topic")
	hub.Publish("topic")
	hub.Publish("topic")

	requireSignal(t, ch)

	select {
	case <-ch:
		t.Fatal("coalesced publishes should deliver a single signal")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnsubscribeOnContextCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	ch := hub.Subscribe(ctx, "topic")
	require.Equal(t, 1, hub.Subscribers("topic"))

	cancel()

	assert.Eventually(t, func() bool {
		return hub.Subscribers("topic") == 0
	}, time.Second, 10*time.Millisecond)

	_, ok := <-ch
	assert.False(t, ok, "subscriber channel should close after cancel")
}

func requireSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a signal")
	}
}
