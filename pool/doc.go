// Package pool
// Author: momentics <momentics@gmail.com>
//
// NUMA-aware buffer allocation backing iomgr's DMA-capable IobufAlloc path
// (see iomgr/buffer.go). BufferPoolManager segments pools by NUMA node;
// each platform's newBufferPool allocates aligned, NUMA-placed memory
// through its own NUMAAllocator (numa_linux.go / numa_windows.go) and
// recycles it via the shared baseBufferPool. See bufferpool.go and
// base_bufferpool.go for the pooling core.
package pool
