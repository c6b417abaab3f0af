package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop serializes timers and external input onto one goroutine so every handler
// runs to completion before the next starts.
type Loop struct {
	tasks    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a loop with the given task buffer. Call Run to start it.
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Run executes tasks until ctx is cancelled or Stop is called.
func (l *Loop) Run(ctx context.Context) {
	defer l.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case f := <-l.tasks:
			f()
		}
	}
}

// Do queues f to run on the loop. It returns false once the loop has stopped.
func (l *Loop) Do(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- f:
		return true
	case <-l.done:
		return false
	}
}

// Stop ends Run. Queued tasks are dropped.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Done is closed once the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// AfterFunc runs f on the loop after d. The cancelled flag is checked on the loop,
// so a timer stopped from a loop handler never fires even if its deadline passed.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		l.Do(func() {
			if lt.cancelled.Load() {
				return
			}
			lt.fired.Store(true)
			f()
		})
	})
	return lt
}

type loopTimer struct {
	t         *time.Timer
	cancelled atomic.Bool
	fired     atomic.Bool
}

func (lt *loopTimer) Stop() bool {
	if lt.cancelled.Swap(true) {
		return false
	}
	lt.t.Stop()
	return !lt.fired.Load()
}
