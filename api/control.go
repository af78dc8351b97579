// File: api/control.go
// Package api defines Control interface.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Control manages the manager's dynamic config, runtime metrics and
// hot-reload broadcast. adapters.ControlAdapter is the sole implementation:
// it backs the config/metrics/debug stores NewManager pulls its
// control.ConfigStore, control.MetricsRegistry and control.DebugProbes from.
type Control interface {
	// GetConfig returns a snapshot of the current config key/value set.
	GetConfig() map[string]any
	// SetConfig merges cfg into the store and broadcasts a reload to
	// every listener registered via OnReload.
	SetConfig(cfg map[string]any) error
	// Stats returns combined metrics and debug-probe output, the latter
	// namespaced under "debug.".
	Stats() map[string]any
	// OnReload registers fn to run whenever SetConfig changes the store.
	OnReload(fn func())
	// Reload synchronously re-runs every OnReload listener, independent
	// of any config change — used to re-apply config after an external
	// signal (e.g. SIGHUP) rather than a SetConfig call.
	Reload()
	// RegisterDebugProbe adds a named probe; the underlying
	// Debug.DumpState reports it under its bare name, and Stats under
	// "debug.<name>".
	RegisterDebugProbe(name string, fn func() any)
}
