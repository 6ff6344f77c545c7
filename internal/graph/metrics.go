package graph

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for graph operations.
var (
	tracer = otel.Tracer("docgraph.graph")
	meter  = otel.Meter("docgraph.graph")
)

var (
	opLatency       metric.Float64Histogram
	opTotal         metric.Int64Counter
	cleanupFailures metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		opLatency, err = meter.Float64Histogram(
			"docgraph_graph_operation_duration_seconds",
			metric.WithDescription("Duration of graph store operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		opTotal, err = meter.Int64Counter(
			"docgraph_graph_operations_total",
			metric.WithDescription("Total number of graph store operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		cleanupFailures, err = meter.Int64Counter(
			"docgraph_graph_cleanup_failures_total",
			metric.WithDescription("Cascade cleanup steps that failed"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startOp opens a span for op. The returned func ends it and records the
// outcome; defer it with the address of the named error result.
func startOp(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	ctx, span := tracer.Start(ctx, "graph."+op, trace.WithAttributes(attrs...))
	start := time.Now()
	return ctx, func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		recordOp(ctx, op, time.Since(start), err == nil)
	}
}

func recordOp(ctx context.Context, op string, d time.Duration, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("op", op),
		attribute.Bool("success", success),
	)
	opLatency.Record(ctx, d.Seconds(), attrs)
	opTotal.Add(ctx, 1, attrs)
}

func recordCleanupFailure(ctx context.Context, step string) {
	if err := initMetrics(); err != nil {
		return
	}
	cleanupFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("step", step)))
}
