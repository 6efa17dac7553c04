// Package resilience retries transient failures and paces repeated calls.
//
// Retry re-runs an operation on any error. Only wrap idempotent operations:
// a retried payment or order creation may be applied twice by the backend.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/manhhung3004/Gentsshop/logger"
)

const (
	// DefaultMaxAttempts is the total number of tries, including the first.
	DefaultMaxAttempts = 3
	// DefaultInitialDelay is the wait after the first failure. It doubles
	// after every further failure.
	DefaultInitialDelay = time.Second
)

// Policy bounds a retry loop. The delay before retry k (k counting failed
// attempts from zero) is InitialDelay * 2^k.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

// DefaultPolicy returns three attempts starting at one second.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, InitialDelay: DefaultInitialDelay}
}

// Delay returns the wait after the failed attempt at zero-based index k.
func (p Policy) Delay(k int) time.Duration {
	if p.InitialDelay <= 0 || k < 0 {
		return 0
	}
	return p.InitialDelay << k
}

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

// RetryFunc observes a failed attempt before the delay. attempt is 1-based.
type RetryFunc func(attempt int, err error, delay time.Duration)

type options struct {
	policy  Policy
	sleep   Sleeper
	onRetry RetryFunc
	retryIf func(error) bool
}

// Option configures Retry.
type Option func(*options)

// WithPolicy replaces both attempt count and initial delay.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithMaxAttempts sets the total number of tries. Values below 1 mean 1.
func WithMaxAttempts(n int) Option {
	return func(o *options) { o.policy.MaxAttempts = n }
}

// WithInitialDelay sets the wait after the first failure.
func WithInitialDelay(d time.Duration) Option {
	return func(o *options) { o.policy.InitialDelay = d }
}

// WithSleeper replaces the real clock, mostly for tests.
func WithSleeper(s Sleeper) Option {
	return func(o *options) {
		if s != nil {
			o.sleep = s
		}
	}
}

// WithOnRetry registers a hook called before each delay.
func WithOnRetry(fn RetryFunc) Option {
	return func(o *options) { o.onRetry = fn }
}

// WithRetryIf limits retries to errors for which fn returns true. Other
// errors are returned immediately.
func WithRetryIf(fn func(error) bool) Option {
	return func(o *options) { o.retryIf = fn }
}

// LogRetries logs every retry at warn level under the given operation name.
func LogRetries(log logger.Logger, operation string) Option {
	return WithOnRetry(func(attempt int, err error, delay time.Duration) {
		log.Warn().
			Err(err).
			Str("operation", operation).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("Retrying after failure")
	})
}

// Retry runs op until it succeeds or the attempts run out, returning the
// last error unchanged. Cancellation is terminal: when ctx is done, or op
// fails with context.Canceled, no further attempts or delays happen.
func Retry[T any](ctx context.Context, op func(context.Context) (T, error), opts ...Option) (T, error) {
	o := options{policy: DefaultPolicy(), sleep: Sleep}
	for _, opt := range opts {
		opt(&o)
	}
	attempts := max(o.policy.MaxAttempts, 1)

	var zero T
	for k := 0; ; k++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		val, err := op(ctx)
		if err == nil {
			return val, nil
		}
		if errors.Is(err, context.Canceled) {
			return zero, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		if k == attempts-1 || (o.retryIf != nil && !o.retryIf(err)) {
			return zero, err
		}

		delay := o.policy.Delay(k)
		if o.onRetry != nil {
			o.onRetry(k+1, err, delay)
		}
		if err := o.sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}

// Do is Retry for operations without a result.
func Do(ctx context.Context, op func(context.Context) error, opts ...Option) error {
	_, err := Retry(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}, opts...)
	return err
}

// Sleep pauses for d, returning ctx.Err() early if ctx is done first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
