// File: iomgr/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Aligned buffer allocation duality: DMA-capable (NUMA-aware, routed through
// pool.BufferPoolManager) when the polled backend is active, or a plain
// aligned slice otherwise. IobufFree routes correctly regardless of which
// path produced the buffer by tagging the returned slice's backing kind.

package iomgr

import (
	"sync"
	"unsafe"

	"github.com/momentics/iomgr/api"
	"github.com/momentics/iomgr/pool"
)

// alignedAlloc rounds size up to align and returns a plain, non-pooled
// buffer. This is the "libc aligned_alloc" side of the duality.
func alignedAlloc(align, size int) []byte {
	if align <= 0 {
		align = 1
	}
	rounded := ((size + align - 1) / align) * align
	// Overallocate by align so a caller-visible aligned window always exists,
	// mirroring the C allocator's guarantee without cgo.
	raw := make([]byte, rounded+align)
	off := 0
	if rem := int(uintptr(unsafe.Pointer(&raw[0])) % uintptr(align)); rem != 0 {
		off = align - rem
	}
	return raw[off : off+rounded]
}

// dmaBuffer pairs a NUMA-aware api.Buffer with the pool it came from so
// IobufFree can return it correctly.
type dmaBuffer struct {
	buf  api.Buffer
	pool api.BufferPool
}

// bufferAllocator implements the alloc/free/realloc trio, switching backends
// on the isSPDK flag it was constructed with (Start builds a fresh one).
type bufferAllocator struct {
	mgr     *pool.BufferPoolManager
	isSPDK  bool
	numaPin int

	mu    sync.Mutex
	byPtr map[*byte]*dmaBuffer
}

func newBufferAllocator(isSPDK bool, numaPin int) *bufferAllocator {
	return &bufferAllocator{
		mgr:     pool.DefaultManager(),
		isSPDK:  isSPDK,
		numaPin: numaPin,
		byPtr:   make(map[*byte]*dmaBuffer),
	}
}

// Alloc returns a DMA-capable buffer (is_spdk) or a plain aligned slice.
func (a *bufferAllocator) Alloc(align, size int) []byte {
	if !a.isSPDK {
		return alignedAlloc(align, size)
	}
	p := a.mgr.GetPool(a.numaPin)
	b := p.Get(size, align, a.numaPin)
	data := b.Bytes()
	if len(data) == 0 {
		return alignedAlloc(align, size)
	}
	a.trackDMA(data, &dmaBuffer{buf: b, pool: p})
	return data
}

// Free releases a buffer obtained from Alloc, routing to the pool if it was
// a DMA allocation, or letting the plain slice be GC-reclaimed otherwise.
func (a *bufferAllocator) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}
	if d, ok := a.untrackDMA(buf); ok {
		d.pool.Put(d.buf)
	}
}

// Realloc grows or shrinks buf, preserving its DMA/plain nature.
func (a *bufferAllocator) Realloc(buf []byte, align, size int) []byte {
	if d, ok := a.untrackDMA(buf); ok {
		next := a.Alloc(align, size)
		n := copy(next, buf)
		_ = n
		d.pool.Put(d.buf)
		return next
	}
	next := alignedAlloc(align, size)
	copy(next, buf)
	return next
}

func (a *bufferAllocator) trackDMA(data []byte, d *dmaBuffer) {
	if len(data) == 0 {
		return
	}
	a.mu.Lock()
	a.byPtr[&data[0]] = d
	a.mu.Unlock()
}

func (a *bufferAllocator) untrackDMA(buf []byte) (*dmaBuffer, bool) {
	if len(buf) == 0 {
		return nil, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.byPtr[&buf[0]]
	if ok {
		delete(a.byPtr, &buf[0])
	}
	return d, ok
}
