// File: iomgr/message.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Message is the unit of work routed between io_threads. SyncMessage adds a
// completion latch so a caller can block for the recipient(s) to finish.

package iomgr

import (
	"sync"
	"sync/atomic"
)

// MessageType distinguishes control messages from module-routed payloads.
type MessageType int

const (
	// MsgGeneric is dispatched to the module identified by ModuleID.
	MsgGeneric MessageType = iota
	// MsgReschedule is returned by a handler to ask the reactor to requeue
	// the message at the tail of the same io_thread's queue instead of
	// treating it as delivered.
	MsgReschedule
	// MsgRelinquishIOThread instructs the recipient reactor to release the
	// targeted io_thread and, once its last io_thread is gone, exit its loop.
	MsgRelinquishIOThread
)

// Message is a single work item addressed to one io_thread at delivery time.
// Cloned copies used for multicast fan-out are independent allocations that
// must each be freed exactly once.
type Message struct {
	Type       MessageType
	ModuleID   MsgModuleID
	DestThread int32 // thread_addr, resolved at delivery time
	Device     *IODevice
	Payload    any
	Fn         func()
	// OnComplete, if set, is invoked by the reactor immediately after the
	// module handler returns (success or panic-recovered). SyncMessage uses
	// this to ack its completion latch once per delivered copy.
	OnComplete func()

	freed atomic.Bool
}

// NewMessage constructs a generic message routed through the given module.
func NewMessage(moduleID MsgModuleID, payload any) *Message {
	return &Message{Type: MsgGeneric, ModuleID: moduleID, Payload: payload}
}

// Clone returns an independent copy suitable for a separate delivery, used
// by multicast fan-out to all-matching-threads variants.
func (m *Message) Clone() *Message {
	return &Message{
		Type:       m.Type,
		ModuleID:   m.ModuleID,
		DestThread: m.DestThread,
		Device:     m.Device,
		Payload:    m.Payload,
		Fn:         m.Fn,
		OnComplete: m.OnComplete,
	}
}

// free marks the message as released. Returns true the first time it is
// called for this message, false on any subsequent call, so callers can
// assert the "freed exactly once" invariant.
func (m *Message) free() bool {
	return m.freed.CompareAndSwap(false, true)
}

// SyncMessage wraps a Message with a completion latch. expected is the
// number of recipients that must each call Ack exactly once before Wait
// returns. It starts out at the caller-supplied estimate but is corrected
// to the real delivered count by setExpected once routing (MulticastMsg)
// has actually run, since routing regexes like least_busy_* and
// random_worker deliver to exactly one thread out of a much larger
// candidate set.
type SyncMessage struct {
	*Message
	mu       sync.Mutex
	done     chan struct{}
	expected atomic.Int32
	acked    atomic.Int32
}

// NewSyncMessage constructs a sync message expecting `expected` completions.
func NewSyncMessage(moduleID MsgModuleID, payload any, expected int) *SyncMessage {
	s := &SyncMessage{
		Message: NewMessage(moduleID, payload),
		done:    make(chan struct{}),
	}
	s.expected.Store(int32(expected))
	s.Message.OnComplete = s.Ack
	return s
}

// setExpected corrects the completion target to n, the count of recipients
// the message was actually delivered to. Acks may race with this call from
// other goroutines already handling earlier deliveries; since acked only
// increases, re-checking against the new target after storing it — the
// same way Ack re-checks after incrementing — means whichever of the two
// runs last observes the fully up-to-date state and closes done.
func (s *SyncMessage) setExpected(n int) {
	s.expected.Store(int32(n))
	s.checkDone()
}

// checkDone is invoked concurrently from every reactor goroutine that
// finishes handling a clone of the multicast (via Message.OnComplete), so
// multiple callers can observe acked >= expected simultaneously; the mutex
// keeps only one of them close done, matching timerHandle.Cancel and
// globalTimer.Cancel's close-once pattern.
func (s *SyncMessage) checkDone() {
	if s.acked.Load() < s.expected.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// Ack signals that one recipient has finished handling the message. Once
// every expected recipient has acked, Wait unblocks.
func (s *SyncMessage) Ack() {
	s.acked.Add(1)
	s.checkDone()
}

// Wait blocks until every expected recipient has called Ack. Callers must
// not call Wait when expected is zero (see MulticastMsgAndWait / SendMsgAndWait,
// which only wait when at least one delivery succeeded).
func (s *SyncMessage) Wait() {
	<-s.done
}
