//go:build linux
// +build linux

// File: pool/bufferpool_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux buffer pool: aligned, NUMA-placed allocations via libnuma (cgo),
// pooled and recycled through the platform-neutral baseBufferPool.

package pool

import (
	"github.com/momentics/iomgr/api"
)

// linuxBuffer implements api.Buffer over libnuma-backed memory. root keeps
// the original allocation (address and length numa_free needs) distinct
// from data, which may be a Slice()'d view over it. native marks whether
// root actually came from libnuma (and must be numa_free'd) or is a plain
// Go fallback slice (left to the GC) — calling numa_free on Go-managed
// memory would corrupt the heap.
type linuxBuffer struct {
	data   []byte
	root   []byte
	numaID int
	native bool
	pool   *baseBufferPool[*linuxBuffer]
}

func (b *linuxBuffer) Bytes() []byte { return b.data }

func (b *linuxBuffer) Slice(start, end int) api.Buffer {
	if start < 0 || end > len(b.data) || start > end {
		panic("slice bounds out of range")
	}
	return &linuxBuffer{data: b.data[start:end], root: b.root, numaID: b.numaID, native: b.native, pool: b.pool}
}

func (b *linuxBuffer) Release() {
	if b.pool != nil {
		b.pool.Put(b)
	}
}

func (b *linuxBuffer) Copy() []byte {
	dst := make([]byte, len(b.data))
	copy(dst, b.data)
	return dst
}

func (b *linuxBuffer) NUMANode() int { return b.numaID }

// newBufferPool (Linux) creates a NUMA-segmented pool backed by libnuma.
// numa_available()==-1 (no NUMA hardware/permission) degrades every Alloc
// to a plain malloc, transparently to callers.
func newBufferPool(numaNode int) api.BufferPool {
	na := newLinuxNUMAAllocator()
	var p *baseBufferPool[*linuxBuffer]
	p = newBaseBufferPool[*linuxBuffer](numaNode,
		func(size, align, numaPref int) *linuxBuffer {
			rounded := alignUp(size, align)
			root, err := na.Alloc(rounded, numaPref)
			native := err == nil && len(root) > 0
			if !native {
				root = make([]byte, rounded)
			}
			return &linuxBuffer{data: root[:size], root: root, numaID: numaPref, native: native, pool: p}
		},
		func(b *linuxBuffer) {
			if b.native {
				na.Free(b.root)
			}
		},
	)
	return p
}
