// File: pool/base_bufferpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-neutral pooling core shared by the Linux and Windows buffer
// pools. Each platform supplies a factory that allocates aligned,
// NUMA-placed memory via its own NUMAAllocator (numa_linux.go /
// numa_windows.go) and an onEvict hook that returns that memory to the
// allocator when a channel is full instead of silently dropping it —
// cgo/VirtualAlloc-backed buffers are invisible to the Go GC, so a dropped
// reference without a Free call would leak native memory.

package pool

import (
	"sync"

	"github.com/momentics/iomgr/api"
)

type bufferFactory[T api.Buffer] func(size, align, numaPref int) T

type baseBufferPool[T api.Buffer] struct {
	pools   map[int]chan T
	mu      sync.Mutex
	factory bufferFactory[T]
	onEvict func(T)
	stats   api.BufferPoolStats
}

func newBaseBufferPool[T api.Buffer](numaNode int, factory bufferFactory[T], onEvict func(T)) *baseBufferPool[T] {
	return &baseBufferPool[T]{
		pools:   map[int]chan T{numaNode: make(chan T, 1024)},
		factory: factory,
		onEvict: onEvict,
	}
}

func (p *baseBufferPool[T]) getChannel(numaPref int) chan T {
	p.mu.Lock()
	ch, ok := p.pools[numaPref]
	if !ok {
		ch = make(chan T, 1024)
		p.pools[numaPref] = ch
	}
	p.mu.Unlock()
	return ch
}

func (p *baseBufferPool[T]) Get(size, align, numaPref int) api.Buffer {
	ch := p.getChannel(numaPref)
	select {
	case buf := <-ch:
		if cap(buf.Bytes()) < size {
			if p.onEvict != nil {
				p.onEvict(buf)
			}
			return p.alloc(size, align, numaPref)
		}
		return buf.Slice(0, size)
	default:
		return p.alloc(size, align, numaPref)
	}
}

func (p *baseBufferPool[T]) alloc(size, align, numaPref int) api.Buffer {
	b := p.factory(size, align, numaPref)
	p.mu.Lock()
	p.stats.TotalAlloc++
	p.stats.InUse++
	p.mu.Unlock()
	return b
}

func (p *baseBufferPool[T]) Put(b api.Buffer) {
	tb, ok := b.(T)
	if !ok {
		return
	}
	p.mu.Lock()
	p.stats.TotalFree++
	p.stats.InUse--
	p.mu.Unlock()
	ch := p.getChannel(tb.NUMANode())
	select {
	case ch <- tb:
	default:
		if p.onEvict != nil {
			p.onEvict(tb)
		}
	}
}

func (p *baseBufferPool[T]) Stats() api.BufferPoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
