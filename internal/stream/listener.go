package stream

import (
	"context"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	// TopicMentorshipRequests matches the channel notified by the
	// mentorship_requests triggers.
	TopicMentorshipRequests = "mentorship_requests"
	// TopicUsers matches the channel notified by the users triggers.
	TopicUsers = "users"

	listenerMinReconnect = time.Second
	listenerMaxReconnect = 30 * time.Second
	listenerPingInterval = 90 * time.Second
)

// Listener bridges PostgreSQL LISTEN/NOTIFY channels into the hub. A dropped
// connection is logged and reconnected by lib/pq; watchers also poll, so a
// missed notification delays a snapshot rather than losing it.
type Listener struct {
	pq     *pq.Listener
	hub    *Hub
	logger *zap.Logger
}

// NewListener opens a dedicated notification connection and subscribes to the
// given channels.
func NewListener(dsn string, channels []string, hub *Hub, logger *zap.Logger) (*Listener, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	eventLogger := logger.Sugar()
	pqListener := pq.NewListener(dsn, listenerMinReconnect, listenerMaxReconnect, func(event pq.ListenerEventType, err error) {
		if err != nil {
			eventLogger.Warnw("notification listener event", "event", event, "error", err)
		}
	})

	for _, channel := range channels {
		if err := pqListener.Listen(channel); err != nil {
			_ = pqListener.Close()
			return nil, err
		}
	}

	return &Listener{pq: pqListener, hub: hub, logger: logger}, nil
}

// Run forwards notifications to the hub until ctx ends.
func (l *Listener) Run(ctx context.Context) {
	ping := time.NewTicker(listenerPingInterval)
	defer ping.Stop()
	defer func() {
		_ = l.pq.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case notification := <-l.pq.Notify:
			if notification == nil {
				// nil arrives after a reconnect; watchers catch up on poll.
				continue
			}
			l.hub.Publish(notification.Channel)
		case <-ping.C:
			if err := l.pq.Ping(); err != nil {
				l.logger.Sugar().Warnw("notification listener ping failed", "error", err)
			}
		}
	}
}
