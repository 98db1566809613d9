package tracking

import (
	"sync"
	"time"
)

// seqRand replays vals in a loop.
type seqRand struct {
	vals []float64
	i    int
}

func (s *seqRand) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func always(v float64) *seqRand { return &seqRand{vals: []float64{v}} }

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeClock queues callbacks until the test fires them.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*fakeTimer
	all     []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{delay: d, f: f}
	c.pending = append(c.pending, t)
	c.all = append(c.all, t)
	return t
}

// FireNext runs the oldest live callback. It reports false when nothing
// is pending.
func (c *fakeClock) FireNext() bool {
	c.mu.Lock()
	for len(c.pending) > 0 {
		t := c.pending[0]
		c.pending = c.pending[1:]
		if t.stopped {
			continue
		}
		t.fired = true
		c.now = c.now.Add(t.delay)
		c.mu.Unlock()
		t.f()
		return true
	}
	c.mu.Unlock()
	return false
}

func (c *fakeClock) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}
