// Package stream turns database change notifications into snapshot streams.
// The hub fans notifications out per topic; watchers re-query on each signal
// and emit the full result set, so consumers always hold a consistent view.
package stream

import (
	"context"
	"sync"
)

// Hub fans change signals out to topic subscribers. Subscriber channels hold
// a single pending signal; further publishes coalesce into it, so a slow
// watcher never blocks the publisher and never misses more than one re-query.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[chan struct{}]struct{}
}

// NewHub builds an empty hub.
func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[chan struct{}]struct{})}
}

// Subscribe registers for signals on a topic until ctx ends. The returned
// channel is closed on unsubscribe.
func (h *Hub) Subscribe(ctx context.Context, topic string) <-chan struct{} {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[chan struct{}]struct{})
		h.topics[topic] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		if subs, ok := h.topics[topic]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.topics, topic)
			}
		}
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Publish signals every subscriber of the topic.
func (h *Hub) Publish(topic string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.topics[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers reports the subscriber count for a topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
