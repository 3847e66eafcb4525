package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OperationContext times one tracked operation and fans its outcome
// out to the active span and the operation metrics. Metrics may be
// nil; recording is then skipped.
type OperationContext struct {
	Component string
	Operation string
	Started   time.Time
	Metrics   *BridgeMetrics
}

// NewOperationContext starts the clock for a component operation.
func NewOperationContext(component, operation string, metrics *BridgeMetrics) *OperationContext {
	return &OperationContext{
		Component: component,
		Operation: operation,
		Started:   time.Now(),
		Metrics:   metrics,
	}
}

// StartSpanForOperation opens a span named spanName, tagged with the
// operation identity.
func (oc *OperationContext) StartSpanForOperation(ctx context.Context, spanName string) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, spanName)
	span.SetAttributes(
		attribute.String(AttrComponent, oc.Component),
		attribute.String(AttrOperationName, oc.Operation),
	)
	return ctx, span
}

// EndOperation closes the span with the outcome and records the
// operation metric. Failed operations mark the span status, so trace
// backends surface them without attribute filters.
func (oc *OperationContext) EndOperation(ctx context.Context, span trace.Span, status string, err error) {
	elapsed := time.Since(oc.Started)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, elapsed.Milliseconds()),
	)
	span.End()

	oc.Metrics.RecordOperation(ctx, oc.Component, oc.Operation, status, elapsed)
}
