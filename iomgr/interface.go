// File: iomgr/interface.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// IOInterface groups a family of devices and receives per-io_thread
// start/stop callbacks. DriveInterface narrows this to storage backends and
// is tracked separately so the manager can pick a default.

package iomgr

// IOInterface is a family of devices sharing lifecycle callbacks.
type IOInterface interface {
	Name() string
	// OnIOThreadStart is invoked once for every io_thread as it comes up.
	OnIOThreadStart(thread *IOThread)
	// OnIOThreadStop is invoked once for every io_thread as it tears down.
	OnIOThreadStop(thread *IOThread)
}

// DriveInterface narrows IOInterface to storage device families.
type DriveInterface interface {
	IOInterface
	IsPolled() bool
}

// GenericInterface is the always-present, built-in interface added during
// interface_init before any caller-supplied interface.
type GenericInterface struct{}

func (GenericInterface) Name() string                     { return "generic" }
func (GenericInterface) OnIOThreadStart(thread *IOThread) {}
func (GenericInterface) OnIOThreadStop(thread *IOThread)  {}

// defaultEventDriveInterface is installed when Start is called without an
// iface_adder and is_spdk is false.
type defaultEventDriveInterface struct{}

func (defaultEventDriveInterface) Name() string                     { return "default_event_drive" }
func (defaultEventDriveInterface) OnIOThreadStart(thread *IOThread) {}
func (defaultEventDriveInterface) OnIOThreadStop(thread *IOThread)  {}
func (defaultEventDriveInterface) IsPolled() bool                   { return false }

// defaultPolledDriveInterface is installed when Start is called without an
// iface_adder and is_spdk is true.
type defaultPolledDriveInterface struct{}

func (defaultPolledDriveInterface) Name() string                     { return "default_polled_drive" }
func (defaultPolledDriveInterface) OnIOThreadStart(thread *IOThread) {}
func (defaultPolledDriveInterface) OnIOThreadStop(thread *IOThread)  {}
func (defaultPolledDriveInterface) IsPolled() bool                   { return true }
