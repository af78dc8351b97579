// File: iomgr/user_reactor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// userReactor gives an application goroutine that is not one of the fixed
// worker slots its own addressable io_thread, so all_user/least_busy_user
// selectors and direct send_msg calls can target it. It has no OS-level
// event source of its own; the caller drives it by looping on Run (or by
// spawning it on its own goroutine, mirroring a worker reactor).

package iomgr

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/iomgr/internal/logging"
)

type userReactor struct {
	mgr       *Manager
	inbox     *inbox
	log       *logging.Logger
	stopCh    chan struct{}
	stoppedCh chan struct{}
	rrCounter atomic.Uint64
	mu        sync.RWMutex
	threads   []*IOThread
	timer     *reactorTimer
}

func newUserReactor(mgr *Manager) *userReactor {
	r := &userReactor{
		mgr:       mgr,
		inbox:     newInbox(),
		log:       mgr.log.WithReactor(-1),
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
	r.timer = newReactorTimer(r)
	return r
}

func (r *userReactor) IsWorker() bool  { return false }
func (r *userReactor) WorkerSlot() int { return -1 }

func (r *userReactor) IOThreads() []*IOThread {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*IOThread, len(r.threads))
	copy(out, r.threads)
	return out
}

func (r *userReactor) SelectThread() *IOThread {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.threads) == 0 {
		return nil
	}
	i := r.rrCounter.Add(1) % uint64(len(r.threads))
	return r.threads[i]
}

func (r *userReactor) DeliverMsg(threadAddr int32, msg *Message) bool {
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

// Run drives this user reactor's loop until Stop is called. Application
// code that wants to both send and receive messages on its own thread calls
// this directly instead of spawning a goroutine, matching the way a worker
// reactor never returns control until relinquished.
func (r *userReactor) Run() {
	defer close(r.stoppedCh)

	thread := &IOThread{Reactor: r, ThreadAddr: 0, IsWorker: false, IsUser: true}
	idx, err := r.mgr.reserveThread(thread)
	if err != nil {
		r.log.Error("failed to reserve user thread index", "error", err.Error())
		return
	}
	thread.ThreadIdx = idx
	r.mu.Lock()
	r.threads = append(r.threads, thread)
	r.mu.Unlock()
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
		if len(msgs) == 0 {
			r.inbox.waitNonEmpty(r.stopCh)
		}
		select {
		case <-r.stopCh:
			r.inbox.push(&Message{Type: MsgRelinquishIOThread})
		default:
		}
	}

	r.mu.Lock()
	r.threads = nil
	r.mu.Unlock()
	r.mgr.releaseThread(thread.ThreadIdx)
	r.mgr.reactorStopped(thread)
}

func (r *userReactor) Stop() {
	select {
	case <-r.stopCh:
	default:
		close(r.stopCh)
	}
	select {
	case r.inbox.signal <- struct{}{}:
	default:
	}
}
