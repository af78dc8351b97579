// File: iomgr/reactor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// IOReactor is the per-thread event loop. eventReactor multiplexes file
// descriptors through reactor.EventReactor (epoll/IOCP); polledReactor
// busy-polls a PolledRuntime. Both share the eapache/queue-backed inbox and
// dispatch contract described by the reactor loop invariants.

package iomgr

import (
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/iomgr/internal/logging"
)

// IOReactor is the common contract satisfied by both backend variants.
type IOReactor interface {
	// IsWorker reports whether this reactor occupies a fixed worker slot.
	IsWorker() bool
	// WorkerSlot returns the slot number for a worker reactor, or -1.
	WorkerSlot() int
	// IOThreads returns a snapshot of the io_threads currently owned by
	// this reactor.
	IOThreads() []*IOThread
	// SelectThread picks a target io_thread for random_worker delivery,
	// typically round-robin over this reactor's own io_threads.
	SelectThread() *IOThread
	// DeliverMsg enqueues msg for threadAddr; returns false if the reactor
	// has no matching, still-live io_thread (caller frees the message).
	DeliverMsg(threadAddr int32, msg *Message) bool
	// Run executes the reactor loop until relinquished. Blocking call,
	// intended to run on its own goroutine.
	Run()
	// Stop asks the loop to relinquish all io_threads and exit.
	Stop()
}

// inbox is a mutex-guarded growable ring shared by both reactor variants.
// A buffered signal channel wakes an idle reactor without requiring it to
// block forever, so per-thread timers still get re-checked on a bounded
// cadence even when no message ever arrives. onPush, when set, additionally
// signals a reactor-owned wake source (eventReactor's kernel-registered
// eventfd) so a push unblocks a backend.Wait as well as the channel poll.
type inbox struct {
	mu     sync.Mutex
	q      *queue.Queue
	signal chan struct{}
	onPush func()
}

func newInbox() *inbox {
	return &inbox{q: queue.New(), signal: make(chan struct{}, 1)}
}

func (ib *inbox) push(m *Message) {
	ib.mu.Lock()
	ib.q.Add(m)
	ib.mu.Unlock()
	select {
	case ib.signal <- struct{}{}:
	default:
	}
	if ib.onPush != nil {
		ib.onPush()
	}
}

// drain pops up to max pending messages without blocking.
func (ib *inbox) drain(max int) []*Message {
	ib.mu.Lock()
	defer ib.mu.Unlock()
	n := ib.q.Length()
	if n > max {
		n = max
	}
	out := make([]*Message, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ib.q.Remove().(*Message))
	}
	return out
}

// idleTimerResolution bounds how long a reactor with an empty inbox sleeps
// before re-checking its timer set and stop signal.
const idleTimerResolution = 5 * time.Millisecond

// waitNonEmpty blocks until a message is queued, stop fires, or
// idleTimerResolution elapses, whichever comes first.
func (ib *inbox) waitNonEmpty(stop <-chan struct{}) {
	select {
	case <-ib.signal:
	case <-stop:
	case <-time.After(idleTimerResolution):
	}
}

const reactorDrainBatch = 256

// dispatch invokes the module registered for msg on the current reactor
// thread, honoring MsgReschedule and MsgRelinquishIOThread as control
// messages instead of routing them through the module table.
func dispatch(mgr *Manager, self IOReactor, thread *IOThread, msg *Message, log *logging.Logger) (relinquished bool) {
	switch msg.Type {
	case MsgRelinquishIOThread:
		mgr.freeOriginal(msg)
		return true
	case MsgReschedule:
		self.DeliverMsg(thread.ThreadAddr, msg)
		return false
	default:
	}

	thread.IncOutstanding()
	mgr.metrics.setOutstanding(thread.ThreadIdx, thread.OutstandingOps())
	defer func() {
		thread.DecOutstanding()
		mgr.metrics.setOutstanding(thread.ThreadIdx, thread.OutstandingOps())
	}()

	handler, ok := mgr.lookupModule(msg.ModuleID)
	if !ok {
		log.Warn("no module registered for message", "module_id", int(msg.ModuleID))
		if msg.OnComplete != nil {
			msg.OnComplete()
		}
		mgr.freeOriginal(msg)
		return false
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("message handler panic", "recover", r)
			}
		}()
		handler(thread, msg)
	}()

	if msg.OnComplete != nil {
		msg.OnComplete()
	}
	mgr.metrics.incDelivered()
	mgr.freeOriginal(msg)
	return false
}
