package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebounceDeliversLastCall(t *testing.T) {
	var mu sync.Mutex
	var got []string

	d := Debounce(func(s string) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, s)
	}, 20*time.Millisecond)

	d.Call("l")
	d.Call("la")
	d.Call("lap")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(40 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"lap"}, got)
}

func TestDebounceStop(t *testing.T) {
	var calls atomic.Int32
	d := Debounce(func(int) { calls.Add(1) }, 10*time.Millisecond)

	d.Call(1)
	d.Stop()
	d.Call(2)

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestDebounceDefaultDelay(t *testing.T) {
	d := Debounce(func(int) {}, 0)
	assert.Equal(t, DefaultPace, d.delay)
}

func TestThrottleLeadingEdge(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	var got []int

	th := Throttle(func(v int) { got = append(got, v) }, 500*time.Millisecond)
	th.now = func() time.Time { return now }

	assert.True(t, th.Call(1))
	assert.False(t, th.Call(2))

	now = now.Add(200 * time.Millisecond)
	assert.False(t, th.Call(3))

	now = now.Add(300 * time.Millisecond)
	assert.True(t, th.Call(4))

	assert.Equal(t, []int{1, 4}, got)
}

func TestThrottleDefaultInterval(t *testing.T) {
	th := Throttle(func(int) {}, -1)
	assert.InDelta(t, float64(time.Second/DefaultPace), float64(th.limiter.Limit()), 0.001)
}
