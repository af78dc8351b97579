//go:build linux
// +build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific debug probes surfacing the topology internal/concurrency's
// NUMA allocator (pool/numa_linux.go) and affinity pinning target.

package control

import (
	"runtime"

	"github.com/momentics/iomgr/internal/concurrency"
)

// RegisterPlatformProbes sets Linux-specific debug metrics.
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
