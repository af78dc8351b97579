//go:build linux
// +build linux

// File: iomgr/wake_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// wakeSource is the eventfd registered with an eventReactor's backend so
// that backend.Wait actually blocks on, and is woken by, real kernel state
// instead of standing in as a decorative dependency next to a stdlib poll.

package iomgr

import "golang.org/x/sys/unix"

type wakeSource struct {
	fd int
}

func newWakeSource() (*wakeSource, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &wakeSource{fd: fd}, nil
}

func (w *wakeSource) fdValue() uintptr { return uintptr(w.fd) }

// signal increments the eventfd counter, waking anyone blocked in
// backend.Wait on this descriptor. Errors are ignored: a full or already
// non-blocking write means a wakeup is already pending.
func (w *wakeSource) signal() {
	var buf [8]byte
	buf[0] = 1
	_, _ = unix.Write(w.fd, buf[:])
}

// drain resets the eventfd counter to zero after a wakeup, so the next
// signal reliably unblocks Wait again instead of returning immediately on
// leftover state.
func (w *wakeSource) drain() {
	var buf [8]byte
	_, _ = unix.Read(w.fd, buf[:])
}

func (w *wakeSource) close() error {
	return unix.Close(w.fd)
}

func wakeSourceAvailable() bool { return true }
