// File: iomgr/metrics.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Prometheus counters/gauges for message delivery and reactor load, exposed
// alongside the ad-hoc control.MetricsRegistry snapshot for anyone scraping
// a /metrics endpoint externally.

package iomgr

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

type runtimeMetrics struct {
	registry          *prometheus.Registry
	messagesDelivered prometheus.Counter
	messagesFreed     prometheus.Counter
	outstandingOps    *prometheus.GaugeVec
	lifecyclePhase    prometheus.Gauge
}

func newRuntimeMetrics() *runtimeMetrics {
	reg := prometheus.NewRegistry()
	m := &runtimeMetrics{
		registry: reg,
		messagesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "iomgr_messages_delivered_total",
			Help: "Total messages successfully dispatched to a module handler.",
		}),
		messagesFreed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "iomgr_messages_freed_total",
			Help: "Total messages freed (delivered, undeliverable, or zero-target multicast).",
		}),
		outstandingOps: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "iomgr_reactor_outstanding_ops",
			Help: "In-flight operations per io_thread.",
		}, []string{"thread_idx"}),
		lifecyclePhase: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "iomgr_manager_state",
			Help: "Current manager lifecycle phase as an ordinal.",
		}),
	}
	reg.MustRegister(m.messagesDelivered, m.messagesFreed, m.outstandingOps, m.lifecyclePhase)
	return m
}

func (m *runtimeMetrics) incDelivered() { m.messagesDelivered.Inc() }
func (m *runtimeMetrics) incFreed()     { m.messagesFreed.Inc() }

func (m *runtimeMetrics) setOutstanding(threadIdx int, v int64) {
	m.outstandingOps.WithLabelValues(strconv.Itoa(threadIdx)).Set(float64(v))
}

func (m *runtimeMetrics) setPhase(s RunState) {
	m.lifecyclePhase.Set(float64(s))
}

// Registry exposes the underlying Prometheus registry for external scraping.
func (m *runtimeMetrics) Registry() *prometheus.Registry { return m.registry }

// gatherMetricNames flattens a Prometheus registry into a name->count map
// suitable for control.DebugProbes, which only carries map[string]any
// snapshots rather than a full /metrics exposition. Used to surface the
// prometheus counters through Manager.Debug() for callers that inspect
// debug state instead of scraping a metrics endpoint.
func gatherMetricNames(reg *prometheus.Registry) map[string]any {
	families, err := reg.Gather()
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	out := make(map[string]any, len(families))
	for _, fam := range families {
		out[fam.GetName()] = len(fam.GetMetric())
	}
	return out
}
