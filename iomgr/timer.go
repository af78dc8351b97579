// File: iomgr/timer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// reactorTimer implements per-thread (event-driven and polled) timer
// scheduling, checked once per reactor loop pass. globalTimer implements the
// manager-owned, multicast-on-fire user/worker scope timers.

package iomgr

import (
	"sync"
	"time"

	"github.com/momentics/iomgr/api"
)

var (
	_ api.Cancelable = (*timerHandle)(nil)
	_ api.Cancelable = (*globalTimer)(nil)
)

type timerEntry struct {
	id       uint64
	nextFire time.Time
	period   time.Duration
	recurring bool
	cookie   any
	fn       func(cookie any)
	canceled bool
}

// reactorTimer is the per-io_thread timer set, polled from the owning
// reactor's own loop iteration — no separate goroutine, matching the
// cooperative-scheduling contract reactors run under.
type reactorTimer struct {
	owner   IOReactor
	mu      sync.Mutex
	entries map[uint64]*timerEntry
	nextID  uint64
}

func newReactorTimer(owner IOReactor) *reactorTimer {
	return &reactorTimer{owner: owner, entries: make(map[uint64]*timerEntry)}
}

// schedule installs a new timer firing after delay, optionally recurring
// every delay thereafter.
func (t *reactorTimer) schedule(delay time.Duration, recurring bool, cookie any, fn func(cookie any)) TimerHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	e := &timerEntry{
		id:        id,
		nextFire:  time.Now().Add(delay),
		period:    delay,
		recurring: recurring,
		cookie:    cookie,
		fn:        fn,
	}
	t.entries[id] = e
	return &timerHandle{timer: t, id: id}
}

func (t *reactorTimer) cancel(id uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[id]
	if !ok {
		return nil
	}
	e.canceled = true
	delete(t.entries, id)
	return nil
}

// fireExpired invokes callbacks for every entry whose nextFire has passed,
// rearming recurring ones. Called once per reactor loop iteration.
func (t *reactorTimer) fireExpired() {
	now := time.Now()
	t.mu.Lock()
	var due []*timerEntry
	for id, e := range t.entries {
		if e.canceled {
			delete(t.entries, id)
			continue
		}
		if !e.nextFire.After(now) {
			due = append(due, e)
			if e.recurring {
				e.nextFire = now.Add(e.period)
			} else {
				delete(t.entries, id)
			}
		}
	}
	t.mu.Unlock()

	for _, e := range due {
		if e.canceled {
			continue
		}
		e.fn(e.cookie)
	}
}

// timerHandle implements TimerHandle (and, by shape, api.Cancelable) over a
// reactorTimer entry.
type timerHandle struct {
	timer *reactorTimer
	id    uint64
	mu    sync.Mutex
	done  chan struct{}
	err   error
}

func (h *timerHandle) Cancel() error {
	err := h.timer.cancel(h.id)
	h.mu.Lock()
	if h.done == nil {
		h.done = make(chan struct{})
	}
	select {
	case <-h.done:
	default:
		h.err = err
		close(h.done)
	}
	h.mu.Unlock()
	return err
}

func (h *timerHandle) Done() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done == nil {
		h.done = make(chan struct{})
	}
	return h.done
}

func (h *timerHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// globalTimer is the manager-owned timer that fires by multicasting a
// message to every io_thread matching its regex, realizing
// schedule_global_timer's "user-scope" and "worker-scope" variants.
type globalTimer struct {
	mgr      *Manager
	regex    ThreadRegex
	t        *time.Timer
	stopCh   chan struct{}
	canceled bool
	mu       sync.Mutex
}

func (mgr *Manager) scheduleGlobalTimer(delay time.Duration, recurring bool, r ThreadRegex, cookie any, fn func(cookie any)) TimerHandle {
	gt := &globalTimer{mgr: mgr, regex: r, stopCh: make(chan struct{})}
	gt.t = time.AfterFunc(delay, func() {
		gt.fire(delay, recurring, cookie, fn)
	})
	return gt
}

func (gt *globalTimer) fire(delay time.Duration, recurring bool, cookie any, fn func(cookie any)) {
	gt.mu.Lock()
	if gt.canceled {
		gt.mu.Unlock()
		return
	}
	gt.mu.Unlock()

	msg := NewMessage(InternalMsgModuleID, cookie)
	msg.Fn = func() { fn(cookie) }
	gt.mgr.MulticastMsg(gt.regex, msg)

	gt.mu.Lock()
	if recurring && !gt.canceled {
		gt.t = time.AfterFunc(delay, func() { gt.fire(delay, recurring, cookie, fn) })
	}
	gt.mu.Unlock()
}

func (gt *globalTimer) Cancel() error {
	gt.mu.Lock()
	defer gt.mu.Unlock()
	gt.canceled = true
	if gt.t != nil {
		gt.t.Stop()
	}
	select {
	case <-gt.stopCh:
	default:
		close(gt.stopCh)
	}
	return nil
}

func (gt *globalTimer) Done() <-chan struct{} { return gt.stopCh }
func (gt *globalTimer) Err() error            { return nil }
