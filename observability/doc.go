// Package observability provides OpenTelemetry tracing and metrics for
// cache, queue, and sync activity, plus the aggregate health report the
// bridge hands to its host.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("stewardtrack-bridge"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanSyncRun)
//	defer span.End()
//
// Without InitTracer the global provider is a no-op, so traced code
// paths cost nothing in hosts that never enable export.
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("stewardtrack-bridge"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewBridgeMetrics(observability.Meter("bridge"))
//	metrics.RecordCacheHit(ctx, "members")
//
// A nil *BridgeMetrics is safe to record on, so components take metrics
// as an optional dependency without guarding every call.
//
// Health:
//
//	health := observability.NewServiceHealth("stewardtrack-bridge", version.Short())
//	health.AddComponent(observability.Health{Name: "storage", Status: observability.HealthStatusUp})
package observability
