// File: iomgr/types.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Core enumerations and small value types shared across the runtime.

package iomgr

// RunState mirrors the manager's start/stop lifecycle.
type RunState int

const (
	StateUninitialized RunState = iota
	StateInterfaceInit
	StateReactorInit
	StateSysInit
	StateRunning
	StateStopping
	StateStopped
)

func (s RunState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInterfaceInit:
		return "interface_init"
	case StateReactorInit:
		return "reactor_init"
	case StateSysInit:
		return "sys_init"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ThreadRegex selects one or more io_threads for dispatch.
type ThreadRegex int

const (
	RegexAllIO ThreadRegex = iota
	RegexAllWorker
	RegexAllUser
	RegexLeastBusyIO
	RegexLeastBusyWorker
	RegexLeastBusyUser
	RegexRandomWorker
)

func (r ThreadRegex) String() string {
	switch r {
	case RegexAllIO:
		return "all_io"
	case RegexAllWorker:
		return "all_worker"
	case RegexAllUser:
		return "all_user"
	case RegexLeastBusyIO:
		return "least_busy_io"
	case RegexLeastBusyWorker:
		return "least_busy_worker"
	case RegexLeastBusyUser:
		return "least_busy_user"
	case RegexRandomWorker:
		return "random_worker"
	default:
		return "unknown"
	}
}

// isLeastBusy reports whether r requires a running-minimum scan.
func (r ThreadRegex) isLeastBusy() bool {
	switch r {
	case RegexLeastBusyIO, RegexLeastBusyWorker, RegexLeastBusyUser:
		return true
	default:
		return false
	}
}

// MsgModuleID is a dense identifier assigned by RegisterMsgModule.
type MsgModuleID int

// InternalMsgModuleID is reserved for the manager's own dispatch-to-reactor
// routing module, registered first during Start.
const InternalMsgModuleID MsgModuleID = 0

// ThreadStateNotifier is invoked once when an io_thread starts and once when
// it stops, mirroring the original runtime's reactor_started/reactor_stopped
// broadcast.
type ThreadStateNotifier func(thread *IOThread, started bool)

// TimerHandle is an opaque, cancellable handle returned by the scheduling
// calls. It satisfies api.Cancelable so callers already holding that
// contract can treat a timer like any other cancellable operation.
type TimerHandle interface {
	Cancel() error
	Done() <-chan struct{}
	Err() error
}
