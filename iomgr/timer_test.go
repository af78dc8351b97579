// File: iomgr/timer_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package iomgr

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReactorTimerFiresRecurring(t *testing.T) {
	rt := newReactorTimer(nil)
	var fires atomic.Int64
	rt.schedule(5*time.Millisecond, true, nil, func(any) { fires.Add(1) })

	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) && fires.Load() < 3 {
		rt.fireExpired()
		time.Sleep(2 * time.Millisecond)
	}
	require.GreaterOrEqual(t, fires.Load(), int64(3))
}

func TestReactorTimerCancelStopsFurtherFires(t *testing.T) {
	rt := newReactorTimer(nil)
	var fires atomic.Int64
	h := rt.schedule(5*time.Millisecond, true, nil, func(any) { fires.Add(1) })

	time.Sleep(20 * time.Millisecond)
	rt.fireExpired()
	require.NoError(t, h.Cancel())
	before := fires.Load()

	time.Sleep(30 * time.Millisecond)
	rt.fireExpired()
	require.Equal(t, before, fires.Load())
}

func TestScheduleThreadTimerFromWithinHandler(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Start(1, false, nil, nil))
	defer mgr.Stop()

	fired := make(chan struct{})
	var setup atomic.Bool
	modID := mgr.RegisterMsgModule(func(thread *IOThread, msg *Message) {
		if setup.CompareAndSwap(false, true) {
			_, err := mgr.ScheduleThreadTimer(5*time.Millisecond, false, nil, func(any) {
				close(fired)
			})
			require.NoError(t, err)
		}
	})

	targets := mgr.threadsMatching(RegexAllWorker)
	require.Len(t, targets, 1)
	require.True(t, mgr.SendMsg(targets[0], NewMessage(modID, nil)))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("thread timer scheduled inside a handler never fired")
	}
}

func TestGlobalTimerMulticastsOnFire(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Start(3, false, nil, nil))
	defer mgr.Stop()

	var fires atomic.Int64
	done := make(chan struct{})
	handle, err := mgr.ScheduleGlobalTimer(10*time.Millisecond, false, RegexAllWorker, nil, func(any) {
		if fires.Add(1) == 3 {
			close(done)
		}
	})
	require.NoError(t, err)
	defer handle.Cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("global timer never multicast to all workers")
	}
}
