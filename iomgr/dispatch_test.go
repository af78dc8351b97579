// File: iomgr/dispatch_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package iomgr

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLeastBusyWorkerPicksMinimumOutstanding(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Start(3, false, nil, nil))
	defer mgr.Stop()

	// Give the reactors a moment to settle into their idle wait.
	time.Sleep(20 * time.Millisecond)

	targets := mgr.threadsMatching(RegexLeastBusyWorker)
	require.Len(t, targets, 3)

	// Artificially inflate outstanding ops on two of the three threads so
	// the third is the unambiguous minimum.
	targets[0].IncOutstanding()
	targets[1].IncOutstanding()
	targets[1].IncOutstanding()

	hitIdx := -1
	var mu sync.Mutex
	done := make(chan struct{})
	modID := mgr.RegisterMsgModule(func(thread *IOThread, msg *Message) {
		mu.Lock()
		hitIdx = thread.ThreadIdx
		mu.Unlock()
		close(done)
	})

	n := mgr.MulticastMsg(RegexLeastBusyWorker, NewMessage(modID, nil))
	require.Equal(t, 1, n)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for least-busy delivery")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, targets[2].ThreadIdx, hitIdx)
}

func TestMulticastAndWaitBlocksForEveryRecipient(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Start(4, false, nil, nil))
	defer mgr.Stop()

	var count atomic.Int64
	modID := mgr.RegisterMsgModule(func(thread *IOThread, msg *Message) {
		time.Sleep(5 * time.Millisecond)
		count.Add(1)
	})

	sm := NewSyncMessage(modID, nil, 4)
	n := mgr.MulticastMsgAndWait(RegexAllWorker, sm)
	require.Equal(t, 4, n)
	require.Equal(t, int64(4), count.Load())
}

func TestRunOnSpecificThreadWaits(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Start(2, false, nil, nil))
	defer mgr.Stop()

	targets := mgr.threadsMatching(RegexAllWorker)
	require.Len(t, targets, 2)

	var ran atomic.Bool
	err := mgr.RunOn(targets[0], func() { ran.Store(true) }, true)
	require.NoError(t, err)
	require.True(t, ran.Load())
}

func TestRunOnRegexZeroTargetsErrors(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Start(1, false, nil, nil))
	defer mgr.Stop()

	err := mgr.RunOn(RegexAllUser, func() {}, false)
	require.Error(t, err)
}

func TestNoDoubleFreeOnAllWorkerMulticast(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Start(3, false, nil, nil))
	defer mgr.Stop()

	modID := mgr.RegisterMsgModule(func(*IOThread, *Message) {})
	msg := NewMessage(modID, nil)
	mgr.MulticastMsg(RegexAllWorker, msg)
	// The original must have been freed exactly once by the manager; a
	// second free attempt must observe it already freed.
	require.False(t, msg.free())
}
