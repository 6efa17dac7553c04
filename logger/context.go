package logger

import (
	"context"
	"sync/atomic"
	"time"
)

// contextKey is the type for context keys to avoid collisions
type contextKey string

const (
	apiCounterKey contextKey = "api_call_counter"
	apiElapsedKey contextKey = "api_elapsed_nanos"
)

// WithAPICounter returns a context that tallies outbound API calls and their
// total elapsed time. The HTTP client records into it on every send.
func WithAPICounter(ctx context.Context) context.Context {
	counter := int64(0)
	elapsed := int64(0)
	ctx = context.WithValue(ctx, apiCounterKey, &counter)
	return context.WithValue(ctx, apiElapsedKey, &elapsed)
}

// RecordAPICall increments the call counter and adds elapsed to the running total.
func RecordAPICall(ctx context.Context, elapsed time.Duration) {
	if ctx == nil {
		return
	}
	if counter, ok := ctx.Value(apiCounterKey).(*int64); ok && counter != nil {
		atomic.AddInt64(counter, 1)
	}
	if total, ok := ctx.Value(apiElapsedKey).(*int64); ok && total != nil {
		atomic.AddInt64(total, int64(elapsed))
	}
}

// APICallCount returns the number of calls recorded in ctx
func APICallCount(ctx context.Context) int64 {
	if counter, ok := ctx.Value(apiCounterKey).(*int64); ok && counter != nil {
		return atomic.LoadInt64(counter)
	}
	return 0
}

// APIElapsed returns the total time spent in API calls recorded in ctx
func APIElapsed(ctx context.Context) time.Duration {
	if total, ok := ctx.Value(apiElapsedKey).(*int64); ok && total != nil {
		return time.Duration(atomic.LoadInt64(total))
	}
	return 0
}
