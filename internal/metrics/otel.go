package metrics

import (
	"context"
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

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and
// optional OTLP exporter. It returns a Recorder, the Prometheus HTTP handler,
// and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "sports-tracker"
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
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

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

type otelInstruments struct {
	meter          metric.Meter
	fetchAttempts  metric.Int64Counter
	fetchErrors    metric.Int64Counter
	fetchLatencyMs metric.Float64Histogram
	rateLimitHits  metric.Int64Counter
	dedupHits      metric.Int64Counter
	cycles         metric.Int64Counter
	cycleErrors    metric.Int64Counter
	sourceErrors   metric.Int64Counter
	cycleLatencyMs metric.Float64Histogram
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("sports-tracker")

	fetchAttempts, err := meter.Int64Counter("fetch_attempts_total")
	if err != nil {
		return nil, err
	}
	fetchErrors, err := meter.Int64Counter("fetch_errors_total")
	if err != nil {
		return nil, err
	}
	fetchLatency, err := meter.Float64Histogram("fetch_duration_ms")
	if err != nil {
		return nil, err
	}
	rateLimitHits, err := meter.Int64Counter("fetch_rate_limit_hits_total")
	if err != nil {
		return nil, err
	}
	dedupHits, err := meter.Int64Counter("fetch_dedup_hits_total")
	if err != nil {
		return nil, err
	}
	cycles, err := meter.Int64Counter("update_cycles_total")
	if err != nil {
		return nil, err
	}
	cycleErrors, err := meter.Int64Counter("update_cycle_errors_total")
	if err != nil {
		return nil, err
	}
	sourceErrors, err := meter.Int64Counter("update_source_errors_total")
	if err != nil {
		return nil, err
	}
	cycleLatency, err := meter.Float64Histogram("update_cycle_duration_ms")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		meter:          meter,
		fetchAttempts:  fetchAttempts,
		fetchErrors:    fetchErrors,
		fetchLatencyMs: fetchLatency,
		rateLimitHits:  rateLimitHits,
		dedupHits:      dedupHits,
		cycles:         cycles,
		cycleErrors:    cycleErrors,
		sourceErrors:   sourceErrors,
		cycleLatencyMs: cycleLatency,
	}, nil
}

func (o *otelInstruments) recordFetchAttempt(duration time.Duration, err error) {
	if o == nil {
		return
	}
	ctx := context.Background()
	result := "ok"
	if err != nil {
		result = "error"
		o.fetchErrors.Add(ctx, 1)
	}
	o.fetchAttempts.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrResult, result)))
	o.fetchLatencyMs.Record(ctx, float64(duration.Milliseconds()))
}

func (o *otelInstruments) recordRateLimit() {
	if o == nil {
		return
	}
	o.rateLimitHits.Add(context.Background(), 1)
}

func (o *otelInstruments) recordDedupHit() {
	if o == nil {
		return
	}
	o.dedupHits.Add(context.Background(), 1)
}

func (o *otelInstruments) recordCycle(duration time.Duration, sourceErrors int, err error) {
	if o == nil {
		return
	}
	ctx := context.Background()
	o.cycles.Add(ctx, 1)
	if err != nil {
		o.cycleErrors.Add(ctx, 1)
	}
	if sourceErrors > 0 {
		o.sourceErrors.Add(ctx, int64(sourceErrors))
	}
	o.cycleLatencyMs.Record(ctx, float64(duration.Milliseconds()))
}
