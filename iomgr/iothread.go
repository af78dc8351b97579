// File: iomgr/iothread.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// io_thread is an addressable endpoint within a reactor. A ThreadIndexReserver
// hands out the dense small integers used to index the thread-local device
// context slices; the module registration table is indexed by module id.

package iomgr

import (
	"sync"
	"sync/atomic"
)

// IOThread is an addressable endpoint within a reactor.
type IOThread struct {
	Reactor    IOReactor
	ThreadIdx  int   // dense, globally unique while live
	ThreadAddr int32 // local address within the owning reactor
	IsWorker   bool
	IsUser     bool

	outstandingOps atomic.Int64
}

// OutstandingOps returns the current outstanding-operation count used by the
// least-busy selection algorithms.
func (t *IOThread) OutstandingOps() int64 {
	return t.outstandingOps.Load()
}

// IncOutstanding and DecOutstanding track work in flight on this io_thread;
// reactors call these around message dispatch.
func (t *IOThread) IncOutstanding() { t.outstandingOps.Add(1) }
func (t *IOThread) DecOutstanding() { t.outstandingOps.Add(-1) }

// ThreadIndexReserver hands out dense indices in [0, max) and returns them on
// release, so a released index may be reused by a later io_thread.
type ThreadIndexReserver struct {
	mu   sync.Mutex
	max  int
	free []int
	next int
}

// NewThreadIndexReserver creates a reserver covering [0, max).
func NewThreadIndexReserver(max int) *ThreadIndexReserver {
	return &ThreadIndexReserver{max: max}
}

// Reserve returns the next available dense index, preferring released
// indices over never-issued ones. Returns a CapacityExhaustion error when
// max_io_threads is reached.
func (r *ThreadIndexReserver) Reserve() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		return idx, nil
	}
	if r.next >= r.max {
		return 0, NewCapacityExhaustedError("max_io_threads exhausted").
			WithContext("max_io_threads", r.max)
	}
	idx := r.next
	r.next++
	return idx, nil
}

// Release returns idx to the free pool for reuse.
func (r *ThreadIndexReserver) Release(idx int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.free = append(r.free, idx)
}
