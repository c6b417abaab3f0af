package app

import (
	"testing"
	"time"

	"invasion/internal/schedule"
)

func TestTurnClockExpiresOnce(t *testing.T) {
	m := schedule.NewManual()
	var ticks []int
	expired := 0
	c := NewTurnClock(m, 3, func(r int) { ticks = append(ticks, r) }, func() { expired++ })

	c.Start()
	if !c.Running() || c.Remaining() != 3 {
		t.Fatalf("clock not started: running %v remaining %d", c.Running(), c.Remaining())
	}
	m.Advance(10 * time.Second)

	if expired != 1 {
		t.Fatalf("expired %d times, want 1", expired)
	}
	want := []int{2, 1, 0}
	if len(ticks) != len(want) {
		t.Fatalf("ticks = %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Fatalf("ticks = %v, want %v", ticks, want)
		}
	}
	if c.Running() || c.Elapsed() != 3 {
		t.Fatalf("clock after expiry: running %v elapsed %d", c.Running(), c.Elapsed())
	}
}

func TestTurnClockStopAndRestart(t *testing.T) {
	m := schedule.NewManual()
	expired := 0
	c := NewTurnClock(m, 5, nil, func() { expired++ })

	c.Start()
	m.Advance(2 * time.Second)
	c.Stop()
	if c.Elapsed() != 2 {
		t.Fatalf("elapsed = %d, want 2", c.Elapsed())
	}
	m.Advance(time.Minute)
	if expired != 0 {
		t.Fatalf("stopped clock expired")
	}

	c.Start()
	if c.Remaining() != 5 {
		t.Fatalf("restart did not reset: %d", c.Remaining())
	}
	c.Start()
	if m.Pending() != 1 {
		t.Fatalf("double start left %d timers", m.Pending())
	}
}
