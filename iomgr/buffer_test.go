// File: iomgr/buffer_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package iomgr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlignedAllocRoundsUpToAlignment(t *testing.T) {
	buf := alignedAlloc(64, 100)
	require.GreaterOrEqual(t, len(buf), 100)
	require.Equal(t, 0, len(buf)%64)
}

func TestBufferAllocatorNonSPDKUsesPlainPath(t *testing.T) {
	a := newBufferAllocator(false, -1)
	buf := a.Alloc(16, 32)
	require.Len(t, buf, 32)
	a.Free(buf) // must not panic for a non-tracked buffer
}

func TestBufferAllocatorSPDKRoutesThroughPool(t *testing.T) {
	a := newBufferAllocator(true, -1)
	buf := a.Alloc(16, 4096)
	require.GreaterOrEqual(t, len(buf), 4096)
	a.Free(buf)
}

func TestBufferAllocatorRealloc(t *testing.T) {
	a := newBufferAllocator(false, -1)
	buf := a.Alloc(8, 16)
	for i := range buf {
		buf[i] = byte(i)
	}
	grown := a.Realloc(buf, 8, 64)
	require.Len(t, grown, 64)
	require.Equal(t, buf[0], grown[0])
}
