// File: iomgr/manager_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package iomgr

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartCreatesWorkerReactors(t *testing.T) {
	mgr := NewManager()
	err := mgr.Start(4, false, nil, nil)
	require.NoError(t, err)
	defer mgr.Stop()

	require.Equal(t, StateRunning, mgr.State())
	mgr.workerMu.RLock()
	n := len(mgr.workers)
	mgr.workerMu.RUnlock()
	require.Equal(t, 4, n)

	seenGeneric := false
	seenDefault := false
	mgr.ForeachInterface(func(iface IOInterface) bool {
		switch iface.Name() {
		case "generic":
			seenGeneric = true
		case "default_event_drive":
			seenDefault = true
		}
		return true
	})
	require.True(t, seenGeneric)
	require.True(t, seenDefault)
}

func TestMulticastAllWorkerInvokesEveryReactor(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Start(4, false, nil, nil))
	defer mgr.Stop()

	var hits atomic.Int64
	done := make(chan struct{})
	var seen atomic.Int64
	modID := mgr.RegisterMsgModule(func(thread *IOThread, msg *Message) {
		hits.Add(1)
		if seen.Add(1) == 4 {
			close(done)
		}
	})

	n := mgr.MulticastMsg(RegexAllWorker, NewMessage(modID, nil))
	require.Equal(t, 4, n)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for all worker handlers")
	}
	require.Equal(t, int64(4), hits.Load())
}

func TestMulticastZeroTargetsWhenNoWorkers(t *testing.T) {
	mgr := NewManager()
	// A manager that never started has no reactors at all.
	n := mgr.MulticastMsg(RegexAllWorker, NewMessage(InternalMsgModuleID, nil))
	require.Equal(t, 0, n)
}

func TestSendMsgToUnknownThreadFails(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Start(2, false, nil, nil))
	defer mgr.Stop()

	fake := &IOThread{Reactor: nil, ThreadAddr: 99}
	ok := mgr.SendMsg(fake, NewMessage(InternalMsgModuleID, nil))
	require.False(t, ok)
}

func TestStopIsIdempotentAndJoinsWorkers(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Start(3, false, nil, nil))
	require.NoError(t, mgr.Stop())
	require.Equal(t, StateStopped, mgr.State())
	// second call is a no-op warning, not an error
	require.NoError(t, mgr.Stop())
}

func TestStartStopStartIsIdempotent(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Start(2, false, nil, nil))
	require.NoError(t, mgr.Stop())
	require.NoError(t, mgr.Start(2, false, nil, nil))
	require.Equal(t, StateRunning, mgr.State())
	require.NoError(t, mgr.Stop())
}

func TestIoThreadSelfUnavailableOutsideReactor(t *testing.T) {
	require.Nil(t, IoThreadSelf())
	require.Nil(t, ThisReactor())
}

func TestRegisterMsgModuleAssignsDenseIDs(t *testing.T) {
	mgr := NewManager()
	a := mgr.RegisterMsgModule(func(*IOThread, *Message) {})
	b := mgr.RegisterMsgModule(func(*IOThread, *Message) {})
	require.Equal(t, a+1, b)
}

func TestStartWithExternallyInitializedSPDKSkipsReinit(t *testing.T) {
	mgr := NewManager()
	mgr.SetSPDKExternal(true)
	require.NoError(t, mgr.Start(2, true, nil, nil))
	defer mgr.Stop()

	require.Equal(t, StateRunning, mgr.State())
	mp, ok := mgr.polledRuntime.(*minimalPolledRuntime)
	require.True(t, ok)
	require.True(t, mp.ExternallyInitialized())

	state := mgr.Debug().DumpState()
	require.Equal(t, true, state["polled.spdk_external"])
}

func TestStartWithoutExternalSPDKFlagInitializesNormally(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Start(2, true, nil, nil))
	defer mgr.Stop()

	mp, ok := mgr.polledRuntime.(*minimalPolledRuntime)
	require.True(t, ok)
	require.False(t, mp.ExternallyInitialized())
}
