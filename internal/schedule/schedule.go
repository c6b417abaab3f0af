// Package schedule provides the single delayed-callback abstraction the battle
// runs on. Manual advances logical time for tests; Loop runs callbacks in real
// time on one goroutine.
package schedule

import "time"

// Timer is a pending callback.
type Timer interface {
	// Stop cancels the callback. It returns false if the callback already ran or
	// was stopped before.
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}
