// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Control adapter implementing api.Control interface using control package primitives.

package adapters

import (
	"github.com/momentics/iomgr/api"
	"github.com/momentics/iomgr/control"
)

var _ api.Control = (*ControlAdapter)(nil)

type ControlAdapter struct {
	config  *control.ConfigStore
	metrics *control.MetricsRegistry
	debug   *control.DebugProbes
}

func NewControlAdapter() *ControlAdapter {
	adapter := &ControlAdapter{
		config:  control.NewConfigStore(),
		metrics: control.NewMetricsRegistry(),
		debug:   control.NewDebugProbes(),
	}
	control.RegisterPlatformProbes(adapter.debug)
	return adapter
}

func (c *ControlAdapter) GetConfig() map[string]any {
	return c.config.GetSnapshot()
}
func (c *ControlAdapter) SetConfig(cfg map[string]any) error {
	c.config.SetConfig(cfg)
	return nil
}
func (c *ControlAdapter) Stats() map[string]any {
	stats := c.metrics.GetSnapshot()
	debugStats := c.debug.DumpState()
	combined := make(map[string]any)
	for k, v := range stats {
		combined[k] = v
	}
	for k, v := range debugStats {
		combined["debug."+k] = v
	}
	return combined
}
func (c *ControlAdapter) OnReload(fn func()) {
	c.config.OnReload(fn)
	control.RegisterReloadHook(fn)
}

// Reload synchronously runs the package-global control.RegisterReloadHook
// registry, which holds the hooks of every ControlAdapter's OnReload (not
// only this one's). Listeners added directly to a control.ConfigStore are
// not run. Use this to re-apply configuration
// after an external trigger (e.g. a SIGHUP handler) that isn't itself a
// SetConfig call.
func (c *ControlAdapter) Reload() {
	control.TriggerHotReloadSync()
}
func (c *ControlAdapter) SetMetric(key string, value any) {
	c.metrics.Set(key, value)
}
func (c *ControlAdapter) RegisterDebugProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}

// ConfigStore, MetricsRegistry and DebugProbes expose the concrete
// collaborators backing this adapter, so a caller that needs the richer
// control.* surface (not just the narrower api.Control contract) can share
// the same underlying state instead of standing up a second, disconnected
// set of stores.
func (c *ControlAdapter) ConfigStore() *control.ConfigStore      { return c.config }
func (c *ControlAdapter) MetricsRegistry() *control.MetricsRegistry { return c.metrics }
func (c *ControlAdapter) DebugProbes() *control.DebugProbes      { return c.debug }
