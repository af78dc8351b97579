//go:build !linux
// +build !linux

// File: iomgr/wake_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-Linux builds have no descriptor-based wake source to register with
// reactor.EventReactor: Windows IOCP wakeup is done via
// PostQueuedCompletionStatus against the completion port itself, not by
// registering a pipe-like handle the way epoll accepts an eventfd, and
// wiring that key-routed path is future work. eventReactor falls back to
// the shared inbox poll on these platforms.

package iomgr

type wakeSource struct{}

func newWakeSource() (*wakeSource, error) { return &wakeSource{}, nil }
func (w *wakeSource) fdValue() uintptr    { return 0 }
func (w *wakeSource) signal()             {}
func (w *wakeSource) drain()              {}
func (w *wakeSource) close() error        { return nil }

func wakeSourceAvailable() bool { return false }
