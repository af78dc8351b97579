package pool_test

import (
	"testing"

	"github.com/momentics/iomgr/pool"
)

func TestBufferPoolReuse(t *testing.T) {
	mgr := pool.NewBufferPoolManager()
	bp := mgr.GetPool(-1)
	b1 := bp.Get(128, 0, -1)
	b1.Release()
	b2 := bp.Get(64, 0, -1)
	// b2 should reuse underlying storage
	if cap(b2.Bytes()) < 128 {
		t.Error("Buffer capacity too small; reuse failed")
	}
}

func TestBufferPoolAlignment(t *testing.T) {
	mgr := pool.NewBufferPoolManager()
	bp := mgr.GetPool(-1)
	b := bp.Get(100, 64, -1)
	defer b.Release()
	if cap(b.Bytes()) < 100 {
		t.Error("buffer smaller than requested size")
	}
	if cap(b.Bytes())%64 != 0 {
		t.Error("buffer capacity not rounded up to the requested alignment")
	}
}
