// Package api
// Author: momentics@gmail.com
//
// CPU/NUMA affinity, thread pinning and topology definitions.

package api

// AffinityScope describes the granularity at which a pinning decision applies.
type AffinityScope int

const (
    ScopeProcess AffinityScope = iota
    ScopeThread
    ScopeGoroutine
)

// AffinityDescriptor is a point-in-time snapshot of a binding, useful for
// diagnostics and control-plane introspection.
type AffinityDescriptor struct {
    CPUID  int
    NUMAID int
    Scope  AffinityScope
    Pinned bool
}

// Affinity controls execution on particular CPUs/NUMA nodes.
type Affinity interface {
    // Pin locks the current goroutine to a CPU or NUMA node.
    Pin(cpuID int, numaID int) error
    // Unpin removes affinity.
    Unpin() error
    // Get returns current CPU and NUMA node.
    Get() (cpuID int, numaID int, err error)
    // Scope returns the binding granularity this instance operates at.
    Scope() AffinityScope
    // ImmutableDescriptor returns a snapshot of the current binding state.
    ImmutableDescriptor() AffinityDescriptor
}
