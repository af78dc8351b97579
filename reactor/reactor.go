// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral event reactor interface for cross-platform IO
// multiplexing, sized for iomgr's single registered descriptor (the wake
// source an eventReactor drives its idle cadence from — see
// iomgr/wake_linux.go) rather than a general-purpose fd-per-connection
// server loop.

package reactor

// EventReactor defines basic reactor operations across OS platforms.
type EventReactor interface {
	// Register an FD (epoll) or HANDLE (Windows) for IO notifications.
	Register(fd uintptr, userData uintptr) error

	// Wait blocks until events are available, timeoutMillis elapses, or an
	// error occurs, writing into the output slice. timeoutMillis < 0 blocks
	// indefinitely; 0 polls without blocking. A timeout is reported as
	// n == 0 with a nil error so a caller's idle-cadence loop (re-checking
	// per-thread timers on a bounded period) can tell it apart from a
	// backend failure.
	Wait(events []Event, timeoutMillis int) (n int, err error)

	// Close cleans up resources (handle/epfd).
	Close() error
}

// Event contains event information returned by Wait call.
type Event struct {
	Fd       uintptr // File descriptor or handle.
	UserData uintptr // User-provided data.
}
