package schedule

import (
	"container/heap"
	"time"
)

// Manual is a deterministic scheduler driven by Advance. Callbacks due at the same
// instant run in the order they were scheduled. Not safe for concurrent use.
type Manual struct {
	now   time.Duration
	seq   uint64
	queue timerQueue
}

// NewManual returns a scheduler whose clock starts at zero.
func NewManual() *Manual {
	return &Manual{}
}

// Now returns the elapsed logical time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending returns how many callbacks are waiting.
func (m *Manual) Pending() int {
	return len(m.queue)
}

// AfterFunc schedules f at Now()+d.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, at: m.now + d, seq: m.seq, f: f, index: -1}
	heap.Push(&m.queue, t)
	return t
}

// Advance moves the clock forward by d, running every callback that falls due,
// including callbacks scheduled by other callbacks within the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for len(m.queue) > 0 && m.queue[0].at <= target {
		t := heap.Pop(&m.queue).(*manualTimer)
		m.now = t.at
		t.fired = true
		t.f()
	}
	m.now = target
}

// RunUntilIdle fires callbacks in order until none remain or limit is reached.
// It returns the number of callbacks run.
func (m *Manual) RunUntilIdle(limit int) int {
	n := 0
	for len(m.queue) > 0 && n < limit {
		t := heap.Pop(&m.queue).(*manualTimer)
		m.now = t.at
		t.fired = true
		t.f()
		n++
	}
	return n
}

type manualTimer struct {
	m       *Manual
	at      time.Duration
	seq     uint64
	f       func()
	index   int
	fired   bool
	stopped bool
}

func (t *manualTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	if t.index >= 0 {
		heap.Remove(&t.m.queue, t.index)
	}
	return true
}

type timerQueue []*manualTimer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].seq < q[j].seq
	}
	return q[i].at < q[j].at
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*manualTimer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
