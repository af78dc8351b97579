//go:build windows
// +build windows

// File: pool/bufferpool_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows buffer pool: aligned, NUMA-placed allocations via
// VirtualAllocExNuma, pooled and recycled through the platform-neutral
// baseBufferPool.

package pool

import (
	"github.com/momentics/iomgr/api"
)

// windowsBuffer implements api.Buffer over VirtualAllocExNuma-backed
// memory. root/native carry the same meaning as linuxBuffer's: root is the
// original allocation VirtualFree needs, native marks whether it actually
// came from the NUMA allocator or is a plain Go fallback slice.
type windowsBuffer struct {
	data   []byte
	root   []byte
	numaID int
	native bool
	pool   *baseBufferPool[*windowsBuffer]
}

func (b *windowsBuffer) Bytes() []byte { return b.data }

func (b *windowsBuffer) Slice(from, to int) api.Buffer {
	if from < 0 || to > len(b.data) || from > to {
		panic("slice bounds out of range")
	}
	return &windowsBuffer{data: b.data[from:to], root: b.root, numaID: b.numaID, native: b.native, pool: b.pool}
}

func (b *windowsBuffer) Release() {
	if b.pool != nil {
		b.pool.Put(b)
	}
}

func (b *windowsBuffer) Copy() []byte {
	c := make([]byte, len(b.data))
	copy(c, b.data)
	return c
}

func (b *windowsBuffer) NUMANode() int { return b.numaID }

// newBufferPool (Windows) creates a NUMA-segmented pool backed by
// VirtualAllocExNuma. If the platform or process lacks NUMA support the
// allocator falls back to a plain Go slice, transparently to callers.
func newBufferPool(numaNode int) api.BufferPool {
	na := newWindowsNUMAAllocator()
	var p *baseBufferPool[*windowsBuffer]
	p = newBaseBufferPool[*windowsBuffer](numaNode,
		func(size, align, numaPref int) *windowsBuffer {
			rounded := alignUp(size, align)
			root, err := na.Alloc(rounded, numaPref)
			native := err == nil && len(root) > 0
			if !native {
				root = make([]byte, rounded)
			}
			return &windowsBuffer{data: root[:size], root: root, numaID: numaPref, native: native, pool: p}
		},
		func(b *windowsBuffer) {
			if b.native {
				na.Free(b.root)
			}
		},
	)
	return p
}
