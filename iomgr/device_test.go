// File: iomgr/device_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package iomgr

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingInterface struct {
	name   string
	starts atomic.Int64
	stops  atomic.Int64
}

func (c *countingInterface) Name() string               { return c.name }
func (c *countingInterface) OnIOThreadStart(t *IOThread) { c.starts.Add(1) }
func (c *countingInterface) OnIOThreadStop(t *IOThread)  { c.stops.Add(1) }
func (c *countingInterface) IsPolled() bool              { return false }

func TestIODeviceThreadLocalRoundTrip(t *testing.T) {
	iface := &countingInterface{name: "test-drive"}
	dev := NewRawFDDevice(7, iface)
	require.Equal(t, DeviceRawFD, dev.Kind)
	require.Equal(t, "7", dev.DevID())

	dev.SetThreadLocal(3, "ctx-for-3")
	v, ok := dev.ThreadLocal(3)
	require.True(t, ok)
	require.Equal(t, "ctx-for-3", v)

	dev.ClearThreadLocal(3)
	_, ok = dev.ThreadLocal(3)
	require.False(t, ok)
}

func TestPerThreadDeviceScopeAndPinning(t *testing.T) {
	iface := &countingInterface{name: "polled-drive"}
	dev := NewPolledQueuePairDevice("qp0", iface, 2)
	require.Equal(t, ScopePerThreadDevice, dev.Scope)
	require.Equal(t, 2, dev.PinnedTo)
	require.Equal(t, "", dev.DevID())
}

func TestOnIOThreadStartStopCalledOncePerInterface(t *testing.T) {
	mgr := NewManager()
	iface := &countingInterface{name: "counted"}
	require.NoError(t, mgr.Start(2, false, nil, func(m *Manager) error {
		return m.AddDriveInterface(iface, true)
	}))
	require.NoError(t, mgr.Stop())

	// generic + counted = 2 interfaces, each io_thread (2 workers) triggers
	// one start and one stop callback per interface.
	require.Equal(t, int64(2), iface.starts.Load())
	require.Equal(t, int64(2), iface.stops.Load())
}
