package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// withTestTracer installs an in-memory exporter as the global tracer
// provider for the duration of the test.
func withTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func spanAttrs(s tracetest.SpanStub) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value, len(s.Attributes))
	for _, kv := range s.Attributes {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("stewardtrack-bridge")
	if cfg.ServiceName != "stewardtrack-bridge" {
		t.Errorf("ServiceName = %q, want stewardtrack-bridge", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("Endpoint = %q, want localhost:4318", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("SampleRate = %v, want 1.0", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("Insecure = false, want true for development defaults")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("stewardtrack-bridge")
	if cfg.ServiceName != "stewardtrack-bridge" {
		t.Errorf("ServiceName = %q, want stewardtrack-bridge", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("Interval = %v, want 15s", cfg.Interval)
	}
}

func TestTracerConfig_SamplerSelection(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want string
	}{
		{"full", 1.0, sdktrace.AlwaysSample().Description()},
		{"above one clamps to full", 2.5, sdktrace.AlwaysSample().Description()},
		{"zero", 0, sdktrace.NeverSample().Description()},
		{"negative clamps to zero", -0.5, sdktrace.NeverSample().Description()},
		{"ratio", 0.25, sdktrace.TraceIDRatioBased(0.25).Description()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := TracerConfig{SampleRate: tt.rate}
			if got := cfg.sampler().Description(); got != tt.want {
				t.Errorf("sampler() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStartSpan_ExportsNameAndAttributes(t *testing.T) {
	exporter := withTestTracer(t)

	ctx, span := StartSpan(context.Background(), SpanSyncRun)
	SetSpanAttribute(ctx, AttrEntity, "members")
	SetSpanAttribute(ctx, "sync.synced", 4)
	SetSpanAttribute(ctx, AttrDurationMs, int64(120))
	SetSpanAttribute(ctx, "ratio", 0.5)
	SetSpanAttribute(ctx, "online", true)
	SetSpanAttribute(ctx, "entities", []string{"members", "events"})
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	got := spans[0]
	if got.Name != SpanSyncRun {
		t.Errorf("span name = %q, want %q", got.Name, SpanSyncRun)
	}
	attrs := spanAttrs(got)
	if v := attrs[attribute.Key(AttrEntity)]; v.AsString() != "members" {
		t.Errorf("entity attr = %q, want members", v.AsString())
	}
	if v := attrs["sync.synced"]; v.AsInt64() != 4 {
		t.Errorf("sync.synced attr = %d, want 4", v.AsInt64())
	}
	if v := attrs["online"]; !v.AsBool() {
		t.Error("online attr = false, want true")
	}
	if v := attrs["entities"]; len(v.AsStringSlice()) != 2 {
		t.Errorf("entities attr = %v, want two entries", v.AsStringSlice())
	}
}

func TestSetSpanAttribute_DropsUnsupportedType(t *testing.T) {
	exporter := withTestTracer(t)

	ctx, span := StartSpan(context.Background(), "attr-types")
	SetSpanAttribute(ctx, "unsupported", struct{ X int }{1})
	span.End()

	attrs := spanAttrs(exporter.GetSpans()[0])
	if _, ok := attrs["unsupported"]; ok {
		t.Error("unsupported attribute type was recorded, want dropped")
	}
}

func TestSetSpanAttribute_NoRecordingSpan(t *testing.T) {
	// Must not panic without a span in context.
	SetSpanAttribute(context.Background(), "key", "value")
}

func TestSetSpanError_RecordsException(t *testing.T) {
	exporter := withTestTracer(t)

	ctx, span := StartSpan(context.Background(), "failing-op")
	SetSpanError(ctx, fmt.Errorf("sync push failed"))
	span.End()

	events := exporter.GetSpans()[0].Events
	if len(events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(events))
	}
	if events[0].Name != "exception" {
		t.Errorf("event name = %q, want exception", events[0].Name)
	}
}

func TestSetSpanError_NoRecordingSpan(t *testing.T) {
	SetSpanError(context.Background(), fmt.Errorf("no span"))
}

func TestOperationContext_EndOperationTagsOutcome(t *testing.T) {
	exporter := withTestTracer(t)
	metrics, err := NewBridgeMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewBridgeMetrics() error = %v", err)
	}

	oc := NewOperationContext("offline", "sync", metrics)
	ctx, span := oc.StartSpanForOperation(context.Background(), SpanSyncRun)
	oc.EndOperation(ctx, span, "ok", nil)

	got := exporter.GetSpans()[0]
	attrs := spanAttrs(got)
	if v := attrs[attribute.Key(AttrComponent)]; v.AsString() != "offline" {
		t.Errorf("component attr = %q, want offline", v.AsString())
	}
	if v := attrs[attribute.Key(AttrOperationName)]; v.AsString() != "sync" {
		t.Errorf("operation attr = %q, want sync", v.AsString())
	}
	if v := attrs[attribute.Key(AttrStatus)]; v.AsString() != "ok" {
		t.Errorf("status attr = %q, want ok", v.AsString())
	}
	if _, ok := attrs[attribute.Key(AttrDurationMs)]; !ok {
		t.Error("duration attr missing")
	}
	if len(got.Events) != 0 {
		t.Errorf("recorded %d events, want none on success", len(got.Events))
	}
}

func TestOperationContext_EndOperationRecordsError(t *testing.T) {
	exporter := withTestTracer(t)

	oc := NewOperationContext("storage", "migrate", nil)
	ctx, span := oc.StartSpanForOperation(context.Background(), SpanStorageMigrate)
	oc.EndOperation(ctx, span, "failed", fmt.Errorf("legacy backend unreachable"))

	got := exporter.GetSpans()[0]
	attrs := spanAttrs(got)
	if v := attrs[attribute.Key(AttrErrorMessage)]; v.AsString() != "legacy backend unreachable" {
		t.Errorf("error attr = %q, want the failure message", v.AsString())
	}
	if len(got.Events) != 1 || got.Events[0].Name != "exception" {
		t.Errorf("events = %v, want one exception", got.Events)
	}
	if got.Status.Code != codes.Error {
		t.Errorf("span status = %v, want %v", got.Status.Code, codes.Error)
	}
}

func TestOperationContext_NilMetricsSafe(t *testing.T) {
	oc := NewOperationContext("offline", "sync", nil)
	if oc.Started.IsZero() {
		t.Error("Started not set")
	}
	ctx, span := oc.StartSpanForOperation(context.Background(), SpanSyncRun)
	oc.EndOperation(ctx, span, "ok", nil)
}

func TestNewBridgeMetrics_RecordsWithoutError(t *testing.T) {
	metrics, err := NewBridgeMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewBridgeMetrics() error = %v", err)
	}

	ctx := context.Background()
	metrics.RecordCacheHit(ctx, "members")
	metrics.RecordCacheMiss(ctx, "members", "expired")
	metrics.RecordCacheWrite(ctx, "events")
	metrics.RecordMutationQueued(ctx, "create", "donations")
	metrics.RecordMutationSynced(ctx, "donations")
	metrics.RecordMutationFailed(ctx, "donations", true)
	metrics.RecordQueueDepth(ctx, 7)
	metrics.RecordSyncRun(ctx, "ok", 120*time.Millisecond)
	metrics.RecordOperation(ctx, "offline", "sync", "ok", 50*time.Millisecond)
	metrics.RecordError(ctx, "timeout", "synchttp")
}

func TestBridgeMetrics_NilReceiver(t *testing.T) {
	var metrics *BridgeMetrics
	ctx := context.Background()

	// Every record method must be a no-op on a nil receiver.
	metrics.RecordCacheHit(ctx, "members")
	metrics.RecordCacheMiss(ctx, "members", "absent")
	metrics.RecordCacheWrite(ctx, "members")
	metrics.RecordMutationQueued(ctx, "update", "groups")
	metrics.RecordMutationSynced(ctx, "groups")
	metrics.RecordMutationFailed(ctx, "groups", false)
	metrics.RecordQueueDepth(ctx, 0)
	metrics.RecordSyncRun(ctx, "offline", time.Second)
	metrics.RecordOperation(ctx, "storage", "migrate", "ok", time.Millisecond)
	metrics.RecordError(ctx, "storage", "sqlite")
}

func TestNewServiceHealth(t *testing.T) {
	sh := NewServiceHealth("stewardtrack-bridge", "1.4.0")
	if sh.Service != "stewardtrack-bridge" {
		t.Errorf("Service = %q, want stewardtrack-bridge", sh.Service)
	}
	if sh.Version != "1.4.0" {
		t.Errorf("Version = %q, want 1.4.0", sh.Version)
	}
	if sh.Status != HealthStatusUp {
		t.Errorf("Status = %s, want up", sh.Status)
	}
}

func TestServiceHealth_RollsUpWorstStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []HealthStatus
		want     HealthStatus
	}{
		{"no components stays up", nil, HealthStatusUp},
		{"all up", []HealthStatus{HealthStatusUp, HealthStatusUp}, HealthStatusUp},
		{"degraded beats up", []HealthStatus{HealthStatusUp, HealthStatusDegraded}, HealthStatusDegraded},
		{"down beats degraded", []HealthStatus{HealthStatusDegraded, HealthStatusDown}, HealthStatusDown},
		{"down not overridden later", []HealthStatus{HealthStatusDown, HealthStatusDegraded, HealthStatusUp}, HealthStatusDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh := NewServiceHealth("stewardtrack-bridge", "1.4.0")
			for i, s := range tt.statuses {
				sh.AddComponent(Health{Name: fmt.Sprintf("c%d", i), Status: s})
			}
			if sh.Status != tt.want {
				t.Errorf("Status = %s, want %s", sh.Status, tt.want)
			}
			if len(sh.Components) != len(tt.statuses) {
				t.Errorf("len(Components) = %d, want %d", len(sh.Components), len(tt.statuses))
			}
		})
	}
}

func TestInitTracer(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tp, err := InitTracer(context.Background(), TracerConfig{
		ServiceName:    "stewardtrack-bridge",
		ServiceVersion: "1.4.0",
		Environment:    "test",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		SampleRate:     1.0,
	})
	if err != nil {
		t.Fatalf("InitTracer() error = %v", err)
	}
	defer tp.Shutdown(context.Background())

	if otel.GetTracerProvider() != tp {
		t.Error("InitTracer did not install the global provider")
	}
}

func TestInitMeter(t *testing.T) {
	prev := otel.GetMeterProvider()
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	mp, err := InitMeter(context.Background(), MeterConfig{
		ServiceName:    "stewardtrack-bridge",
		ServiceVersion: "1.4.0",
		Environment:    "test",
		Endpoint:       "localhost:4318",
		Insecure:       true,
	})
	if err != nil {
		t.Fatalf("InitMeter() error = %v", err)
	}
	defer mp.Shutdown(context.Background())

	if otel.GetMeterProvider() != mp {
		t.Error("InitMeter did not install the global provider")
	}
}
