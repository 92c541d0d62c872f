package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/ports/secondary"
)

// OutcomeOK labels a successful operation.
const OutcomeOK = "ok"

// Metrics provides observability for the land record engine.
type Metrics struct {
	// Operations by name and outcome (ok or an error kind)
	Operations *prometheus.CounterVec

	// Operation latency by name
	Duration *prometheus.HistogramVec

	// Stored values left out of scans
	SkippedRecords prometheus.Counter
}

// NewMetrics registers the engine metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "patta_operations_total",
			Help: "Total land record operations by name and outcome",
		}, []string{"op", "outcome"}),

		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "patta_operation_duration_seconds",
			Help:    "Duration of land record operations",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"op"}),

		SkippedRecords: factory.NewCounter(prometheus.CounterOpts{
			Name: "patta_scan_skipped_records_total",
			Help: "Stored values that failed to decode during scans",
		}),
	}
}

// OperationCompleted counts the outcome and observes the latency.
func (m *Metrics) OperationCompleted(_ context.Context, op, _ string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = apperr.KindOf(err)
	}
	m.Operations.WithLabelValues(op, outcome).Inc()
	m.Duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// RecordSkipped counts an undecodable stored value.
func (m *Metrics) RecordSkipped(context.Context, string, error) {
	if m != nil {
		m.SkippedRecords.Inc()
	}
}

var _ secondary.Observer = (*Metrics)(nil)
