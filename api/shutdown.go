// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown is satisfied by Manager: Stop relinquishes every
// io_thread and joins the worker reactors before returning, and Shutdown is
// the GracefulShutdown-facing name for that same sequence so a caller
// holding only a GracefulShutdown reference (a process supervisor watching
// several subsystems) doesn't need Manager's concrete type. Stop does not
// cancel timers installed through ScheduleGlobalTimer or Schedule.
type GracefulShutdown interface {
	// Shutdown performs the orderly stop sequence and releases resources.
	// Manager's implementation has no stop deadline and always returns nil.
	Shutdown() error
}
