package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
)

// MeterConfig configures OTLP metric export.
type MeterConfig struct {
	// ServiceName identifies the service in exported metrics.
	ServiceName string
	// ServiceVersion is the version reported in the resource.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port, e.g. "localhost:4318".
	Endpoint string
	// Insecure allows plain HTTP export, for development.
	Insecure bool
	// Interval is the export interval. Zero keeps the SDK default.
	Interval time.Duration
}

// DefaultMeterConfig returns development defaults: a local collector,
// 15s export, insecure.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter points the global OpenTelemetry meter provider at an OTLP
// HTTP exporter. The returned provider must be shut down on exit so
// the final export runs.
func InitMeter(ctx context.Context, cfg MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// BridgeMetrics holds the metric instruments for cache, queue, and sync
// activity. A nil *BridgeMetrics is valid and records nothing, so
// callers never need to guard their record calls.
type BridgeMetrics struct {
	cacheHits         metric.Int64Counter
	cacheMisses       metric.Int64Counter
	cacheWrites       metric.Int64Counter
	mutationsQueued   metric.Int64Counter
	mutationsSynced   metric.Int64Counter
	mutationsFailed   metric.Int64Counter
	queueDepth        metric.Int64Gauge
	syncDuration      metric.Float64Histogram
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	errorTotal        metric.Int64Counter
}

// instruments collects instrument construction errors so NewBridgeMetrics
// can build the full set and report the first failure once.
type instruments struct {
	meter metric.Meter
	err   error
}

func (b *instruments) counter(name, desc string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("creating %s counter: %w", name, err)
	}
	return c
}

func (b *instruments) gauge(name, desc string) metric.Int64Gauge {
	g, err := b.meter.Int64Gauge(name, metric.WithDescription(desc))
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("creating %s gauge: %w", name, err)
	}
	return g
}

func (b *instruments) seconds(name, desc string) metric.Float64Histogram {
	h, err := b.meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("creating %s histogram: %w", name, err)
	}
	return h
}

// NewBridgeMetrics creates the bridge's instruments on the given meter.
func NewBridgeMetrics(meter metric.Meter) (*BridgeMetrics, error) {
	b := &instruments{meter: meter}
	m := &BridgeMetrics{
		cacheHits:         b.counter("cache.hits", "Cache reads that returned fresh data"),
		cacheMisses:       b.counter("cache.misses", "Cache reads that found nothing usable"),
		cacheWrites:       b.counter("cache.writes", "Entries written to the offline cache"),
		mutationsQueued:   b.counter("sync.mutations_queued", "Mutations added to the offline queue"),
		mutationsSynced:   b.counter("sync.mutations_synced", "Mutations successfully pushed to the server"),
		mutationsFailed:   b.counter("sync.mutations_failed", "Mutation sync attempts that failed"),
		queueDepth:        b.gauge("sync.queue_depth", "Mutations currently waiting in the offline queue"),
		syncDuration:      b.seconds("sync.duration", "Duration of sync runs in seconds"),
		operationTotal:    b.counter("operation.total", "Total number of operations"),
		operationDuration: b.seconds("operation.duration", "Duration of operations in seconds"),
		errorTotal:        b.counter("error.total", "Total errors by type and component"),
	}
	if b.err != nil {
		return nil, b.err
	}
	return m, nil
}

// RecordCacheHit records a cache read that returned fresh data.
func (m *BridgeMetrics) RecordCacheHit(ctx context.Context, entity string) {
	if m == nil {
		return
	}
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
	))
}

// RecordCacheMiss records a cache read that found nothing usable.
// Reason is "absent" or "expired".
func (m *BridgeMetrics) RecordCacheMiss(ctx context.Context, entity, reason string) {
	if m == nil {
		return
	}
	m.cacheMisses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("reason", reason),
	))
}

// RecordCacheWrite records an entry written to the offline cache.
func (m *BridgeMetrics) RecordCacheWrite(ctx context.Context, entity string) {
	if m == nil {
		return
	}
	m.cacheWrites.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
	))
}

// RecordMutationQueued records a mutation added to the offline queue.
func (m *BridgeMetrics) RecordMutationQueued(ctx context.Context, mutationType, entity string) {
	if m == nil {
		return
	}
	m.mutationsQueued.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", mutationType),
		attribute.String("entity", entity),
	))
}

// RecordMutationSynced records a mutation successfully pushed to the server.
func (m *BridgeMetrics) RecordMutationSynced(ctx context.Context, entity string) {
	if m == nil {
		return
	}
	m.mutationsSynced.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
	))
}

// RecordMutationFailed records a failed sync attempt. Permanent marks
// mutations dropped after exhausting their retry budget.
func (m *BridgeMetrics) RecordMutationFailed(ctx context.Context, entity string, permanent bool) {
	if m == nil {
		return
	}
	m.mutationsFailed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.Bool("permanent", permanent),
	))
}

// RecordQueueDepth records the current offline queue depth.
func (m *BridgeMetrics) RecordQueueDepth(ctx context.Context, depth int) {
	if m == nil {
		return
	}
	m.queueDepth.Record(ctx, int64(depth))
}

// RecordSyncRun records a completed sync pass.
func (m *BridgeMetrics) RecordSyncRun(ctx context.Context, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.syncDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("status", status),
	))
}

// RecordOperation records an operation execution.
func (m *BridgeMetrics) RecordOperation(ctx context.Context, component, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	m.operationTotal.Add(ctx, 1, attrs)
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("operation", operation),
	))
}

// RecordError records an error by type and component.
func (m *BridgeMetrics) RecordError(ctx context.Context, errType, component string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("component", component),
	))
}
