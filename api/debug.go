// Package api
// Author: momentics
//
// Debug introspection contract implemented by control.DebugProbes and
// exposed through Manager.Debug(). Probes are the mechanism NewManager uses
// to publish "manager.state" (RunState.String()) and each platform's
// RegisterPlatformProbes registers "platform.cpus" against — any caller can
// add its own named probe without a code change to iomgr itself.

package api

// Debug exposes runtime introspection for a running Manager.
type Debug interface {
	// DumpState evaluates every registered probe and returns the
	// combined snapshot, keyed by probe name.
	DumpState() map[string]any

	// RegisterProbe adds a named probe. fn is called lazily, once per
	// DumpState, so it should be cheap and side-effect free.
	RegisterProbe(name string, fn func() any)
}
