// File: iomgr/event_reactor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// eventReactor multiplexes file descriptors via reactor.EventReactor
// (epoll on Linux, IOCP on Windows) and drains its message inbox on every
// wakeup. It normally owns exactly one io_thread (thread_addr 0).

package iomgr

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/iomgr/internal/logging"
	"github.com/momentics/iomgr/reactor"
)

type eventReactor struct {
	mgr        *Manager
	slot       int // -1 for a non-worker (user) reactor
	backend    reactor.EventReactor
	wake       *wakeSource
	wakeEvents chan struct{}
	inbox      *inbox
	log        *logging.Logger
	stopCh     chan struct{}
	stoppedCh  chan struct{}
	rrCounter  atomic.Uint64
	mu         sync.RWMutex
	threads    []*IOThread
	timer      *reactorTimer
}

func newEventReactor(mgr *Manager, slot int) (*eventReactor, error) {
	backend, err := reactor.NewReactor()
	if err != nil {
		return nil, err
	}
	wake, err := newWakeSource()
	if err != nil {
		backend.Close()
		return nil, err
	}
	r := &eventReactor{
		mgr:        mgr,
		slot:       slot,
		backend:    backend,
		wake:       wake,
		wakeEvents: make(chan struct{}, 1),
		inbox:      newInbox(),
		log:        mgr.log.WithReactor(slot),
		stopCh:     make(chan struct{}),
		stoppedCh:  make(chan struct{}),
	}
	r.timer = newReactorTimer(r)
	r.inbox.onPush = r.wake.signal

	if wakeSourceAvailable() {
		if err := backend.Register(wake.fdValue(), 0); err != nil {
			wake.close()
			backend.Close()
			return nil, err
		}
		go r.pollBackend()
	}
	return r, nil
}

// idleTimerResolutionMillis is idleTimerResolution expressed as the
// millisecond timeout reactor.EventReactor.Wait understands. Passing it to
// Wait, rather than blocking indefinitely, makes the kernel-multiplexed
// backend itself drive the periodic per-thread timer re-check cadence
// instead of a second, independent stdlib timer racing alongside it.
const idleTimerResolutionMillis = int(idleTimerResolution / time.Millisecond)

// pollBackend blocks on the kernel-multiplexed backend (epoll/IOCP) and
// forwards a wakeup for every Wait return, whether it carried a real event
// on the registered wake descriptor or just timed out. It only runs on
// platforms with a registrable wake source; see wake_linux.go / wake_other.go.
// Loops until backend.Wait errors, which happens once Run closes the
// backend on shutdown.
func (r *eventReactor) pollBackend() {
	events := make([]reactor.Event, 8)
	for {
		n, err := r.backend.Wait(events, idleTimerResolutionMillis)
		if err != nil {
			return
		}
		if n > 0 {
			r.wake.drain()
		}
		select {
		case r.wakeEvents <- struct{}{}:
		default:
		}
	}
}

// waitIdle blocks until a message is queued, the backend reports an event
// or times out on a registered descriptor, or stop fires — whichever comes
// first. On platforms without a registrable wake source it falls back to
// polling the inbox on the same idleTimerResolution cadence.
func (r *eventReactor) waitIdle() {
	if !wakeSourceAvailable() {
		r.inbox.waitNonEmpty(r.stopCh)
		return
	}
	select {
	case <-r.wakeEvents:
	case <-r.inbox.signal:
	case <-r.stopCh:
	}
}

func (r *eventReactor) IsWorker() bool  { return r.slot >= 0 }
func (r *eventReactor) WorkerSlot() int { return r.slot }

func (r *eventReactor) IOThreads() []*IOThread {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*IOThread, len(r.threads))
	copy(out, r.threads)
	return out
}

func (r *eventReactor) attachThread(t *IOThread) {
	r.mu.Lock()
	r.threads = append(r.threads, t)
	r.mu.Unlock()
}

func (r *eventReactor) detachThread(idx int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.threads {
		if t.ThreadIdx == idx {
			r.threads = append(r.threads[:i], r.threads[i+1:]...)
			return
		}
	}
}

func (r *eventReactor) SelectThread() *IOThread {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.threads) == 0 {
		return nil
	}
	i := r.rrCounter.Add(1) % uint64(len(r.threads))
	return r.threads[i]
}

func (r *eventReactor) DeliverMsg(threadAddr int32, msg *Message) bool {
	r.mu.RLock()
	found := false
	for _, t := range r.threads {
		if t.ThreadAddr == threadAddr {
			found = true
			break
		}
	}
	r.mu.RUnlock()
	if !found {
		return false
	}
	r.inbox.push(msg)
	return true
}

func (r *eventReactor) Run() {
	defer close(r.stoppedCh)

	thread := &IOThread{Reactor: r, ThreadAddr: 0, IsWorker: r.IsWorker(), IsUser: !r.IsWorker()}
	idx, err := r.mgr.reserveThread(thread)
	if err != nil {
		r.log.Error("failed to reserve thread index", "error", err.Error())
		return
	}
	thread.ThreadIdx = idx
	r.attachThread(thread)
	r.mgr.reactorStarted(thread)

	for {
		relinquish := false
		msgs := r.inbox.drain(reactorDrainBatch)
		for _, m := range msgs {
			if dispatch(r.mgr, r, thread, m, r.log) {
				relinquish = true
			}
		}
		r.timer.fireExpired()
		if relinquish {
			break
		}
		select {
		case <-r.stopCh:
			r.inbox.push(&Message{Type: MsgRelinquishIOThread})
		default:
		}
		if len(msgs) == 0 {
			r.waitIdle()
		}
	}

	r.detachThread(thread.ThreadIdx)
	r.mgr.releaseThread(thread.ThreadIdx)
	r.mgr.reactorStopped(thread)
	r.backend.Close()
	r.wake.close()
}

func (r *eventReactor) Stop() {
	select {
	case <-r.stopCh:
	default:
		close(r.stopCh)
	}
	select {
	case r.inbox.signal <- struct{}{}:
	default:
	}
	r.wake.signal()
}
