// File: iomgr/polled_reactor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// polledReactor busy-polls a PolledRuntime instead of blocking on an
// EventReactor. It drains its inbox and advances the polling runtime on
// every pass, never issuing a blocking syscall.

package iomgr

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/iomgr/internal/logging"
)

type polledReactor struct {
	mgr       *Manager
	slot      int
	runtime   PolledRuntime
	inbox     *inbox
	log       *logging.Logger
	stopCh    chan struct{}
	stoppedCh chan struct{}
	rrCounter atomic.Uint64
	mu        sync.RWMutex
	threads   []*IOThread
	timer     *reactorTimer
}

func newPolledReactor(mgr *Manager, slot int, rt PolledRuntime) *polledReactor {
	r := &polledReactor{
		mgr:       mgr,
		slot:      slot,
		runtime:   rt,
		inbox:     newInbox(),
		log:       mgr.log.WithReactor(slot),
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
	r.timer = newReactorTimer(r)
	return r
}

func (r *polledReactor) IsWorker() bool  { return r.slot >= 0 }
func (r *polledReactor) WorkerSlot() int { return r.slot }

func (r *polledReactor) IOThreads() []*IOThread {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*IOThread, len(r.threads))
	copy(out, r.threads)
	return out
}

func (r *polledReactor) attachThread(t *IOThread) {
	r.mu.Lock()
	r.threads = append(r.threads, t)
	r.mu.Unlock()
}

func (r *polledReactor) detachThread(idx int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.threads {
		if t.ThreadIdx == idx {
			r.threads = append(r.threads[:i], r.threads[i+1:]...)
			return
		}
	}
}

func (r *polledReactor) SelectThread() *IOThread {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.threads) == 0 {
		return nil
	}
	i := r.rrCounter.Add(1) % uint64(len(r.threads))
	return r.threads[i]
}

func (r *polledReactor) DeliverMsg(threadAddr int32, msg *Message) bool {
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

func (r *polledReactor) Run() {
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
		r.runtime.Advance()

		select {
		case <-r.stopCh:
			relinquish = true
		default:
		}
		if relinquish {
			break
		}
	}

	r.detachThread(thread.ThreadIdx)
	r.mgr.releaseThread(thread.ThreadIdx)
	r.mgr.reactorStopped(thread)
}

func (r *polledReactor) Stop() {
	select {
	case <-r.stopCh:
	default:
		close(r.stopCh)
	}
}
