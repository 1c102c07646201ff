package timeutil

import (
	"testing"
	"time"
)

func TestRealClockNow(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("Now() = %v, expected between %v and %v", now, before, after)
	}
}

func TestRealClockSince(t *testing.T) {
	clock := RealClock{}
	past := time.Now().Add(-time.Second)
	if d := clock.Since(past); d < time.Second {
		t.Errorf("Since() returned %v, expected >= 1s", d)
	}
}

func TestMockClockAdvance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	clock.Advance(time.Minute)
	if got := clock.Now(); !got.Equal(start.Add(time.Minute)) {
		t.Errorf("Now() = %v, want %v", got, start.Add(time.Minute))
	}
	if d := clock.Since(start); d != time.Minute {
		t.Errorf("Since(start) = %v, want 1m", d)
	}
}

func TestMockClockSleepRecordsAndAdvances(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	clock.Sleep(10 * time.Millisecond)
	clock.Sleep(5 * time.Millisecond)

	sleeps := clock.Sleeps()
	if len(sleeps) != 2 || sleeps[0] != 10*time.Millisecond || sleeps[1] != 5*time.Millisecond {
		t.Errorf("Sleeps() = %v", sleeps)
	}
	if got := clock.Now(); !got.Equal(start.Add(15 * time.Millisecond)) {
		t.Errorf("Now() = %v, want start+15ms", got)
	}
}

func TestFramePacerSteadyRate(t *testing.T) {
	clock := NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	pacer := NewFramePacer(clock, 100) // 10ms interval

	for i := 0; i < 3; i++ {
		pacer.WaitNext()
	}

	sleeps := clock.Sleeps()
	if len(sleeps) != 3 {
		t.Fatalf("got %d sleeps, want 3", len(sleeps))
	}
	for i, d := range sleeps {
		if d != 10*time.Millisecond {
			t.Errorf("sleep %d = %v, want 10ms", i, d)
		}
	}
}

func TestFramePacerAbsorbsProcessingTime(t *testing.T) {
	clock := NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	pacer := NewFramePacer(clock, 100)

	// The caller burns 4ms processing; the pacer should only sleep the
	// remaining 6ms of the 10ms interval.
	clock.Advance(4 * time.Millisecond)
	pacer.WaitNext()

	sleeps := clock.Sleeps()
	if len(sleeps) != 1 || sleeps[0] != 6*time.Millisecond {
		t.Errorf("Sleeps() = %v, want [6ms]", sleeps)
	}
}

func TestFramePacerSkipsWhenBehind(t *testing.T) {
	clock := NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	pacer := NewFramePacer(clock, 100)

	// Processing overran the whole interval; no sleep at all.
	clock.Advance(25 * time.Millisecond)
	pacer.WaitNext()

	if sleeps := clock.Sleeps(); len(sleeps) != 0 {
		t.Errorf("Sleeps() = %v, want none when behind schedule", sleeps)
	}
}
