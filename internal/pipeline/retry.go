package pipeline

import (
	"context"
	"math"
	"time"

	"clima-etl/internal/weather"
)

// RetryPolicy bounds how often a step is retried. Zero MaxRetries means the
// step gets exactly one attempt.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Policies carries the per-step retry budgets. Transform is never retried:
// it is a deterministic pure function, so retrying cannot help.
type Policies struct {
	Fetch    RetryPolicy
	Snapshot RetryPolicy
	Load     RetryPolicy
}

// DefaultPolicies mirrors the scheduling manifest's retry annotations:
// network-bound steps get three retries, snapshot I/O two.
func DefaultPolicies() Policies {
	return Policies{
		Fetch:    RetryPolicy{MaxRetries: 3, InitialInterval: 5 * time.Second, MaxInterval: 30 * time.Second},
		Snapshot: RetryPolicy{MaxRetries: 2, InitialInterval: 2 * time.Second, MaxInterval: 10 * time.Second},
		Load:     RetryPolicy{MaxRetries: 3, InitialInterval: 5 * time.Second, MaxInterval: 30 * time.Second},
	}
}

// retry runs fn until it succeeds, the retry budget is exhausted, the error
// is classified non-retryable, or the context is cancelled. Delays grow
// exponentially from InitialInterval up to MaxInterval.
func retry[T any](ctx context.Context, policy RetryPolicy, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !weather.Retryable(err) || attempt >= policy.MaxRetries {
			return zero, lastErr
		}

		delay := policy.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if policy.MaxInterval > 0 && delay > policy.MaxInterval {
			delay = policy.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

func retryErr(ctx context.Context, policy RetryPolicy, fn func() error) error {
	_, err := retry(ctx, policy, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
