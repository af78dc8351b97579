// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cross-platform CPU/NUMA pinning primitives backing adapters.AffinityAdapter,
// which iomgr.Manager uses to pin worker reactor goroutines to CPUs when
// affinity is enabled. affinity.go is the single exported surface
// (PinCurrentThread, UnpinCurrentThread, PreferredCPUID, CurrentNUMANodeID,
// NUMANodes); each platform file supplies the lowercase platformXxx
// implementation selected by build tags (Linux cgo via libnuma, Linux
// pure-Go, Windows via Kernel32, and a LockOSThread-only fallback
// elsewhere).
package concurrency
