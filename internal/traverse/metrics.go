package traverse

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("docgraph.traverse")
	meter  = otel.Meter("docgraph.traverse")
)

var (
	traversalsTotal metric.Int64Counter
	stepsTotal      metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		traversalsTotal, err = meter.Int64Counter(
			"docgraph_traversals_total",
			metric.WithDescription("Traversals started"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		stepsTotal, err = meter.Int64Counter(
			"docgraph_traversal_steps_total",
			metric.WithDescription("Steps yielded by traversals"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordStart(ctx context.Context, mode Mode) {
	if err := initMetrics(); err != nil {
		return
	}
	traversalsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", string(mode))))
}

func recordStep(ctx context.Context, mode Mode) {
	if err := initMetrics(); err != nil {
		return
	}
	stepsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", string(mode))))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
