// Package api
// Author: momentics
//
// Scheduler contract backing Manager's global timers: Schedule installs a
// one-shot callback as an iomgr/timer.go globalTimer (built on
// time.AfterFunc and separate from the per-io_thread reactorTimer), which
// delivers the callback as a message so it runs on a worker reactor
// goroutine.

package api

// Scheduler abstracts one-shot timer scheduling on the manager's global
// timer wheel.
type Scheduler interface {
	// Schedule arranges for fn to run once delayNanos have elapsed and
	// returns a handle that can Cancel it before it fires.
	Schedule(delayNanos int64, fn func()) (Cancelable, error)

	// Cancel aborts a previously scheduled callback. Returns nil if the
	// callback already fired or was already canceled.
	Cancel(c Cancelable) error

	// Now returns Manager's wall-clock reading as Unix nanoseconds (not a
	// monotonic clock).
	Now() int64
}
