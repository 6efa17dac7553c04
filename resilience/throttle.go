package resilience

import (
	"time"

	"golang.org/x/time/rate"
)

// Throttler runs fn at most once per interval. Calls inside the window are
// dropped, not queued.
type Throttler[T any] struct {
	fn      func(T)
	limiter *rate.Limiter
	now     func() time.Time
}

// Throttle returns a leading-edge throttle around fn.
func Throttle[T any](fn func(T), interval time.Duration) *Throttler[T] {
	if interval <= 0 {
		interval = DefaultPace
	}
	return &Throttler[T]{
		fn:      fn,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		now:     time.Now,
	}
}

// Call runs fn(arg) if the window is open and reports whether it ran.
func (t *Throttler[T]) Call(arg T) bool {
	if !t.limiter.AllowN(t.now(), 1) {
		return false
	}
	t.fn(arg)
	return true
}
