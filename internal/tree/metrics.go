package tree

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts reorder activity. A nil *Metrics records nothing.
type Metrics struct {
	labels  *prometheus.CounterVec
	passes  *prometheus.CounterVec
	drops   *prometheus.CounterVec
	failure *prometheus.CounterVec
}

// NewMetrics registers the reorder counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		labels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "credo",
			Name:      "labels_assigned_total",
			Help:      "Generated IDs written by reorder passes.",
		}, []string{"kind"}),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "credo",
			Name:      "reorder_passes_total",
			Help:      "Sibling groups renumbered, by operation.",
		}, []string{"kind", "op"}),
		drops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "credo",
			Name:      "drop_elements_total",
			Help:      "Dragged elements processed, by drop location and outcome.",
		}, []string{"kind", "location", "outcome"}),
		failure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "credo",
			Name:      "persistence_failures_total",
			Help:      "Repository writes that failed during a reorder pass.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.labels, m.passes, m.drops, m.failure)
	return m
}

func (m *Metrics) labelAssigned(kind string) {
	if m == nil {
		return
	}
	m.labels.WithLabelValues(kind).Inc()
}

func (m *Metrics) pass(kind, op string) {
	if m == nil {
		return
	}
	m.passes.WithLabelValues(kind, op).Inc()
}

func (m *Metrics) drop(kind string, loc Location, outcome string) {
	if m == nil {
		return
	}
	m.drops.WithLabelValues(kind, loc.String(), outcome).Inc()
}

func (m *Metrics) persistFailed(kind string) {
	if m == nil {
		return
	}
	m.failure.WithLabelValues(kind).Inc()
}
