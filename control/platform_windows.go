//go:build windows
// +build windows

// control/platform_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific debug probes surfacing the topology internal/concurrency's
// NUMA allocator (pool/numa_windows.go) and affinity pinning target.

package control

import (
	"runtime"

	"github.com/momentics/iomgr/internal/concurrency"
)

// RegisterPlatformProbes sets Windows-specific debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.numa_nodes", func() any {
		return concurrency.NUMANodes()
	})
	dp.RegisterProbe("platform.current_numa_node", func() any {
		return concurrency.CurrentNUMANodeID()
	})
}
