package stream

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/pkg/backoff"
)

// Snapshot is one emission of a watch: the full query result or a terminal
// error. A stream never carries both.
type Snapshot[T any] struct {
	Data T
	Err  error
}

// Fetch loads the current state behind a watch.
type Fetch[T any] func(ctx context.Context) (T, error)

// WatchOptions tunes a single watch.
type WatchOptions struct {
	// Topic is the hub channel that triggers re-queries.
	Topic string
	// PollInterval bounds staleness when notifications are missed.
	PollInterval time.Duration
	// Retry governs transient fetch failures before the error is surfaced.
	Retry backoff.Policy
	// Logger defaults to a nop logger.
	Logger *zap.Logger
}

// Watch emits an initial snapshot, then a fresh one whenever the topic
// signals or the poll interval elapses. Retryable fetch failures are retried
// per the policy; a persisting error is emitted as a terminal snapshot and
// the channel closes. The channel also closes when ctx ends.
func Watch[T any](ctx context.Context, hub *Hub, opts WatchOptions, fetch Fetch[T]) <-chan Snapshot[T] {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 30 * time.Second
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = backoff.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	out := make(chan Snapshot[T], 1)
	signals := hub.Subscribe(ctx, opts.Topic)

	go func() {
		defer close(out)

		poll := time.NewTicker(opts.PollInterval)
		defer poll.Stop()

		for {
			var data T
			err := backoff.Retry(ctx, opts.Retry, func(ctx context.Context) error {
				var fetchErr error
				data, fetchErr = fetch(ctx)
				return fetchErr
			})
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				opts.Logger.Sugar().Errorw("watch fetch failed", "topic", opts.Topic, "error", err)
				emit(ctx, out, Snapshot[T]{Err: err})
				return
			}
			if !emit(ctx, out, Snapshot[T]{Data: data}) {
				return
			}

			select {
			case <-ctx.Done():
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
			case <-poll.C:
			}
		}
	}()

	return out
}

// Null returns a stream that emits a single zero-value snapshot and closes.
// Watching an absent identifier yields this instead of an error.
func Null[T any]() <-chan Snapshot[T] {
	out := make(chan Snapshot[T], 1)
	out <- Snapshot[T]{}
	close(out)
	return out
}

func emit[T any](ctx context.Context, out chan<- Snapshot[T], snapshot Snapshot[T]) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- snapshot:
		return true
	}
}
