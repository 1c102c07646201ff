// Package timeutil abstracts wall-clock operations so frame pacing can be
// tested without real sleeps.
package timeutil

import (
	"sync"
	"time"
)

// Clock is the subset of time operations the replay pacer needs.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(d time.Duration)
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

func (RealClock) Now() time.Time                  { return time.Now() }
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }
func (RealClock) Sleep(d time.Duration)           { time.Sleep(d) }

// MockClock is a manually controlled clock for tests. Sleep returns
// immediately, records the requested duration, and advances the clock.
type MockClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

// NewMockClock creates a MockClock set to the given time.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *MockClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Advance moves the clock forward by d.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *MockClock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Sleeps returns all recorded sleep durations.
func (c *MockClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

// FramePacer spaces frame delivery at a fixed rate against a Clock. Each
// WaitNext sleeps whatever remains of the current frame interval, absorbing
// time the caller spent processing so drift does not accumulate.
type FramePacer struct {
	clock    Clock
	interval time.Duration
	next     time.Time
}

// NewFramePacer creates a pacer for the given frames-per-second rate.
func NewFramePacer(clock Clock, fps float64) *FramePacer {
	return &FramePacer{
		clock:    clock,
		interval: time.Duration(float64(time.Second) / fps),
		next:     clock.Now(),
	}
}

// WaitNext blocks until the next frame instant.
func (p *FramePacer) WaitNext() {
	p.next = p.next.Add(p.interval)
	if d := p.next.Sub(p.clock.Now()); d > 0 {
		p.clock.Sleep(d)
	}
}
