package observability

import (
	"errors"
	"net/http"

	"github.com/aretw0/orgtree/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors fed by engine hooks.
type Metrics struct {
	Registry   *prometheus.Registry
	Operations *prometheus.CounterVec
	Rejections *prometheus.CounterVec
	Cursor     *prometheus.GaugeVec
}

// NewMetrics creates collectors on a private registry, together with the Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orgtree_operations_total",
				Help: "Total number of tree operations, by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orgtree_rejections_total",
				Help: "Total number of rejected moves, by reason",
			},
			[]string{"reason"},
		),
		Cursor: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orgtree_history_cursor",
				Help: "Current undo/redo cursor position per organization",
			},
			[]string{"org"},
		),
	}
	m.Registry.MustRegister(
		m.Operations,
		m.Rejections,
		m.Cursor,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Hooks returns lifecycle hooks that record into m. The cursor gauge is labeled
// with the event's organization name.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	record := func(e *domain.MoveEvent) {
		m.Operations.WithLabelValues(string(e.Type), "ok").Inc()
		m.Cursor.WithLabelValues(e.Org).Set(float64(e.Cursor))
	}
	return domain.LifecycleHooks{
		OnMove: record,
		OnUndo: record,
		OnRedo: record,
		OnReject: func(e *domain.MoveEvent) {
			m.Operations.WithLabelValues(string(domain.EventMove), "rejected").Inc()
			m.Rejections.WithLabelValues(RejectReason(e.Err)).Inc()
		},
	}
}

// RejectReason maps a move error onto a low-cardinality label.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrCEOImmutable):
		return "ceo_immutable"
	case errors.Is(err, domain.ErrSelfSupervision):
		return "self_supervision"
	case domain.IsNotFound(err):
		return "not_found"
	default:
		return "other"
	}
}
