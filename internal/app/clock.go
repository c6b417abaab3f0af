package app

import (
	"time"

	"invasion/internal/schedule"
)

// TurnClock counts a turn down once per second and fires onExpire exactly once
// when it reaches zero.
type TurnClock struct {
	sched     schedule.Scheduler
	duration  int
	remaining int
	timer     schedule.Timer

	onTick   func(remaining int)
	onExpire func()
}

// NewTurnClock builds a stopped clock of the given length in seconds.
func NewTurnClock(sched schedule.Scheduler, seconds int, onTick func(int), onExpire func()) *TurnClock {
	return &TurnClock{
		sched:     sched,
		duration:  seconds,
		remaining: seconds,
		onTick:    onTick,
		onExpire:  onExpire,
	}
}

// Start resets the countdown to full length and begins ticking.
func (c *TurnClock) Start() {
	c.Stop()
	c.remaining = c.duration
	c.next()
}

// Stop cancels the pending tick. Safe to call on a stopped clock.
func (c *TurnClock) Stop() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Running reports whether a tick is pending.
func (c *TurnClock) Running() bool { return c.timer != nil }

// Remaining returns the whole seconds left.
func (c *TurnClock) Remaining() int { return c.remaining }

// Elapsed returns the whole seconds used so far this turn.
func (c *TurnClock) Elapsed() int { return c.duration - c.remaining }

func (c *TurnClock) next() {
	c.timer = c.sched.AfterFunc(time.Second, c.tick)
}

func (c *TurnClock) tick() {
	c.timer = nil
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		if c.onTick != nil {
			c.onTick(0)
		}
		if c.onExpire != nil {
			c.onExpire()
		}
		return
	}
	if c.onTick != nil {
		c.onTick(c.remaining)
	}
	c.next()
}
