package repository

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/stream"
	"github.com/mentorlink/mentorlink-api/pkg/backoff"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// Streams bundles the hub and watch tuning shared by all repositories.
type Streams struct {
	Hub          *stream.Hub
	PollInterval time.Duration
	Retry        backoff.Policy
	Logger       *zap.Logger
}

// NewStreams applies defaults for zero fields.
func NewStreams(hub *stream.Hub, pollInterval time.Duration, retry backoff.Policy, logger *zap.Logger) *Streams {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	if retry.MaxAttempts <= 0 {
		retry = backoff.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Streams{Hub: hub, PollInterval: pollInterval, Retry: retry, Logger: logger}
}

// Options builds watch options bound to a topic.
func (s *Streams) Options(topic string) stream.WatchOptions {
	return stream.WatchOptions{
		Topic:        topic,
		PollInterval: s.PollInterval,
		Retry:        s.Retry,
		Logger:       s.Logger,
	}
}

// asTransient marks an infrastructure failure retryable so the watch retry
// policy engages and subscribers see a transient error instead of the raw
// cause. Typed errors pass through untouched.
func asTransient(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Transient(err, message)
}
