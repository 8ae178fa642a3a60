// Package backoff provides the shared retry policy for transient failures:
// exponential delay, capped, with a bounded attempt count. Only errors
// explicitly marked retryable are retried; everything else propagates
// immediately.
package backoff

import (
	"context"
	"time"

	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// Policy configures retry behaviour.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// ShouldRetry overrides the default retryable-kind gate when set.
	ShouldRetry func(error) bool
}

// Default returns the service-wide policy: 3 attempts, 500ms base, 5s cap.
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Delay computes the backoff delay before the given retry (1-based).
func (p Policy) Delay(retry int) time.Duration {
	if retry < 1 {
		retry = 1
	}
	d := p.BaseDelay << (retry - 1)
	if d > p.MaxDelay || d <= 0 {
		d = p.MaxDelay
	}
	return d
}

func (p Policy) shouldRetry(err error) bool {
	if p.ShouldRetry != nil {
		return p.ShouldRetry(err)
	}
	return appErrors.IsRetryable(err)
}

// Retry runs fn, retrying retryable failures per the policy. The last error is
// returned once attempts are exhausted or a non-retryable error occurs.
func Retry(ctx context.Context, p Policy, fn func(context.Context) error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !p.shouldRetry(err) || attempt > p.MaxAttempts {
			return err
		}

		timer := time.NewTimer(p.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
