//go:build windows
// +build windows

// File: reactor/reactor_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows IOCP (I/O Completion Port) reactor implementation and factory.

package reactor

import (
	"errors"
	"golang.org/x/sys/windows"
	"unsafe"
)

// windowsReactor is an IOCP-based event reactor.
type windowsReactor struct {
	iocp windows.Handle
}

// NewReactor constructs a new platform-specific EventReactor for Windows.
func NewReactor() (EventReactor, error) {
	port, err := windows.CreateIoCompletionPort(
		windows.InvalidHandle,
		0,
		0,
		0,
	)
	if err != nil {
		return nil, err
	}
	return &windowsReactor{
		iocp: port,
	}, nil
}

// Register associates a handle with IOCP.
func (r *windowsReactor) Register(handle uintptr, userData uintptr) error {
	h := windows.Handle(handle)
	_, err := windows.CreateIoCompletionPort(
		h,
		r.iocp,
		userData,
		0,
	)
	return err
}

// Wait blocks for IO events, up to timeoutMillis (-1 blocks forever), and
// fills output slice. A timeout reports (0, nil), matching the Linux
// backend's contract instead of surfacing WAIT_TIMEOUT as a failure.
func (r *windowsReactor) Wait(events []Event, timeoutMillis int) (int, error) {
	if len(events) == 0 {
		return 0, errors.New("reactor: empty event buffer")
	}

	timeout := uint32(windows.INFINITE)
	if timeoutMillis >= 0 {
		timeout = uint32(timeoutMillis)
	}

	var key uintptr
	var overlapped *windows.Overlapped

	err := windows.GetQueuedCompletionStatus(r.iocp, nil, &key, &overlapped, timeout)
	if err == windows.WAIT_TIMEOUT {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	events[0] = Event{
		Fd:       uintptr(unsafe.Pointer(overlapped)), // Overlapped pointer (often used as handle context)
		UserData: key,
	}
	return 1, nil
}

// Close closes the IOCP handle.
func (r *windowsReactor) Close() error {
	return windows.CloseHandle(r.iocp)
}
