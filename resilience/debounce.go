package resilience

import (
	"sync"
	"time"
)

// DefaultPace is used by Debounce and Throttle when no interval is given.
const DefaultPace = 500 * time.Millisecond

// Debouncer delays fn until calls have stopped for the configured delay.
// Only the arguments of the last call are delivered.
type Debouncer[T any] struct {
	fn    func(T)
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// Debounce returns a trailing-edge debouncer around fn.
func Debounce[T any](fn func(T), delay time.Duration) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultPace
	}
	return &Debouncer[T]{fn: fn, delay: delay}
}

// Call schedules fn(arg), cancelling any call still pending.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fn(arg) })
}

// Stop drops any pending call and ignores future ones.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
