package docstore

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Operations per collection, labeled by outcome.
	opsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgraph_store_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"collection", "op", "status"},
	)

	// Round-trip latency per collection and operation.
	opDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docgraph_store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"collection", "op"},
	)
)

// observe records one operation. Pass the address of the named error
// result so the deferred call sees the final value.
func observe(collection, op string, start time.Time, err *error) {
	status := "ok"
	if err != nil && *err != nil {
		status = "error"
	}
	opsTotal.WithLabelValues(collection, op, status).Inc()
	opDuration.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
}
