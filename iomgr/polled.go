// File: iomgr/polled.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// PolledRuntime is the external collaborator contract for a busy-poll
// storage/networking backend (e.g. a userspace NVMe or io_uring driver).
// This module ships a minimal in-process implementation so the manager is
// self-contained; a real deployment substitutes its own PolledRuntime.

package iomgr

import "sync/atomic"

// PolledRuntime abstracts the cooperative, busy-polling execution
// environment used by the SPDK-style backend.
type PolledRuntime interface {
	// Init brings up the polled environment. externallyInitialized
	// indicates the caller has already done so out-of-band.
	Init(externallyInitialized bool) error
	// InitBlockSubsystem starts the block-device subsystem, calling done
	// once it is ready.
	InitBlockSubsystem(done func())
	// Advance drives one iteration of the polling loop; called from the
	// polled reactor's own goroutine on every pass.
	Advance()
	// AllocAligned returns a DMA-capable aligned buffer.
	AllocAligned(align, size int) []byte
	// FreeAligned releases a buffer obtained from AllocAligned.
	FreeAligned(buf []byte)
	// Shutdown tears down the polled environment.
	Shutdown()
}

// minimalPolledRuntime is a self-contained stand-in: it satisfies the
// PolledRuntime contract without any external userspace-storage dependency,
// matching the corpus's own "minimal ring" fallback rather than binding to
// an unverifiable io_uring library (see DESIGN.md).
type minimalPolledRuntime struct {
	initialized atomic.Bool
	external    atomic.Bool
}

func newMinimalPolledRuntime() *minimalPolledRuntime {
	return &minimalPolledRuntime{}
}

// Init marks the polled environment ready. When externallyInitialized is
// true the caller has already brought up the real polled backend (e.g.
// spdk_env_init or an io_uring ring) out-of-band; a production PolledRuntime
// would skip its own setup call in that case to avoid a conflicting
// double-init. This in-process stand-in has no external setup to skip, so
// it only records the flag for Shutdown and for Manager's
// "polled.spdk_external" debug probe to report; Manager itself skips the
// InitBlockSubsystem call when the flag is set.
func (m *minimalPolledRuntime) Init(externallyInitialized bool) error {
	m.external.Store(externallyInitialized)
	m.initialized.Store(true)
	return nil
}

// ExternallyInitialized reports the externallyInitialized flag Init was
// last called with.
func (m *minimalPolledRuntime) ExternallyInitialized() bool {
	return m.external.Load()
}

func (m *minimalPolledRuntime) InitBlockSubsystem(done func()) {
	if done != nil {
		done()
	}
}

func (m *minimalPolledRuntime) Advance() {}

func (m *minimalPolledRuntime) AllocAligned(align, size int) []byte {
	return alignedAlloc(align, size)
}

func (m *minimalPolledRuntime) FreeAligned(buf []byte) {}

func (m *minimalPolledRuntime) Shutdown() {
	if m.external.Load() {
		// The caller owns the externally pre-initialized environment's
		// lifecycle; leave it running rather than tearing it down here.
		return
	}
	m.initialized.Store(false)
}
