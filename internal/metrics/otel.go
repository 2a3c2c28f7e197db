package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// ServiceName is the default OpenTelemetry service and meter name.
const ServiceName = "club-rank-service"

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup wires the OpenTelemetry meter provider. Prometheus is always exported and OTLP is
// added when an endpoint is configured. Disabled telemetry still yields an in-memory Recorder.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = ServiceName
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("prometheus exporter: %w", err)
	}
	readers := []sdkmetric.Reader{promReader}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("otlp exporter %s: %w", cfg.OtlpEndpoint, err)
		}
		readers = append(readers, otlpReader)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("telemetry resource: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	provider := sdkmetric.NewMeterProvider(opts...)

	inst, err := instrumentFactory(provider)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, nil, nil, fmt.Errorf("metric instruments: %w", err)
	}
	return newRecorder(inst), promHandler, provider.Shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx                  context.Context
	meter                metric.Meter
	requests             metric.Int64Counter
	requestLatencyMs     metric.Float64Histogram
	storeCalls           metric.Int64Counter
	storeErrors          metric.Int64Counter
	storeLatencyMs       metric.Float64Histogram
	storeRetries         metric.Int64Counter
	leaderboardBuilds    metric.Int64Counter
	leaderboardErrors    metric.Int64Counter
	leaderboardRows      metric.Int64Histogram
	leaderboardLatencyMs metric.Float64Histogram
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg), promexporter.WithoutUnits())
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

// latencyBucketsMs covers fast in-memory reads up to slow remote store round trips.
var latencyBucketsMs = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

// instrumentBuilder collects creation errors so every instrument is attempted once.
type instrumentBuilder struct {
	meter metric.Meter
	errs  []error
}

func (b *instrumentBuilder) counter(name, desc string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc))
	b.errs = append(b.errs, err)
	return c
}

func (b *instrumentBuilder) latency(name, desc string) metric.Float64Histogram {
	h, err := b.meter.Float64Histogram(name,
		metric.WithDescription(desc),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(latencyBucketsMs...),
	)
	b.errs = append(b.errs, err)
	return h
}

func (b *instrumentBuilder) sizes(name, desc string) metric.Int64Histogram {
	h, err := b.meter.Int64Histogram(name, metric.WithDescription(desc))
	b.errs = append(b.errs, err)
	return h
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	b := &instrumentBuilder{meter: provider.Meter(ServiceName)}

	inst := &otelInstruments{
		ctx:                  context.Background(),
		meter:                b.meter,
		requests:             b.counter("http_requests_total", "HTTP requests served"),
		requestLatencyMs:     b.latency("http_request_duration_ms", "HTTP request latency"),
		storeCalls:           b.counter("store_calls_total", "Store operations by backend and op"),
		storeErrors:          b.counter("store_errors_total", "Store operations that failed unexpectedly"),
		storeLatencyMs:       b.latency("store_call_duration_ms", "Store operation latency"),
		storeRetries:         b.counter("store_retries_total", "Store reads retried after a transient failure"),
		leaderboardBuilds:    b.counter("leaderboard_builds_total", "Leaderboard computations"),
		leaderboardErrors:    b.counter("leaderboard_build_errors_total", "Leaderboard computations that failed"),
		leaderboardRows:      b.sizes("leaderboard_rows", "Rows in a computed leaderboard"),
		leaderboardLatencyMs: b.latency("leaderboard_build_duration_ms", "Leaderboard computation latency"),
	}
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}
	return inst, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordStoreCall(backend, op string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrBackend, backend),
		attribute.String(AttrOperation, op),
	}
	o.recordCounter(o.storeCalls, 1, attrs...)
	o.recordHistogram(o.storeLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.storeErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordStoreRetry(backend, op string) {
	if o == nil {
		return
	}
	o.recordCounter(o.storeRetries, 1,
		attribute.String(AttrBackend, backend),
		attribute.String(AttrOperation, op),
	)
}

func (o *otelInstruments) recordLeaderboardBuild(rows int, duration time.Duration, err error) {
	if o == nil {
		return
	}
	outcome := attribute.String(AttrOutcome, "ok")
	if err != nil {
		outcome = attribute.String(AttrOutcome, "error")
		o.recordCounter(o.leaderboardErrors, 1)
	} else {
		o.leaderboardRows.Record(o.ctx, int64(rows))
	}
	o.recordCounter(o.leaderboardBuilds, 1, outcome)
	o.recordHistogram(o.leaderboardLatencyMs, float64(duration.Milliseconds()), outcome)
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
