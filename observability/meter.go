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

	"github.com/kbukum/diarsplit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider should be shut down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))
	return mp, nil
}

// Meter returns the diarsplit meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(InstrumentationName)
}

// Metrics holds the instruments recorded by batches and the HTTP surface.
type Metrics struct {
	batchTotal        metric.Int64Counter
	batchDuration     metric.Float64Histogram
	segmentsProcessed metric.Int64Counter
	earlyStop         metric.Int64Counter
	requestTotal      metric.Int64Counter
	requestDuration   metric.Float64Histogram
	requestActive     metric.Int64UpDownCounter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	batchTotal, err := meter.Int64Counter("batch.total",
		metric.WithDescription("Total number of batches by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating batch.total counter: %w", err)
	}

	batchDuration, err := meter.Float64Histogram("batch.duration",
		metric.WithDescription("Duration of batches in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating batch.duration histogram: %w", err)
	}

	segmentsProcessed, err := meter.Int64Counter("segments.processed",
		metric.WithDescription("Number of segment clips written"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating segments.processed counter: %w", err)
	}

	earlyStop, err := meter.Int64Counter("batch.early_stop",
		metric.WithDescription("Batches truncated by a row past the end of the media"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating batch.early_stop counter: %w", err)
	}

	requestTotal, err := meter.Int64Counter("request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request.total counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("request.duration",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request.duration histogram: %w", err)
	}

	requestActive, err := meter.Int64UpDownCounter("request.active",
		metric.WithDescription("Number of in-flight HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request.active gauge: %w", err)
	}

	return &Metrics{
		batchTotal:        batchTotal,
		batchDuration:     batchDuration,
		segmentsProcessed: segmentsProcessed,
		earlyStop:         earlyStop,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestActive:     requestActive,
	}, nil
}

// BatchOutcome describes a finished batch for metric recording.
type BatchOutcome struct {
	Status    string
	Profile   string
	Processed int
	Stopped   bool
	Duration  time.Duration
}

// RecordBatch records a finished batch.
func (m *Metrics) RecordBatch(ctx context.Context, o BatchOutcome) {
	m.batchTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", o.Status),
		attribute.String("profile", o.Profile),
	))
	m.batchDuration.Record(ctx, o.Duration.Seconds(), metric.WithAttributes(
		attribute.String("profile", o.Profile),
	))
	if o.Processed > 0 {
		m.segmentsProcessed.Add(ctx, int64(o.Processed), metric.WithAttributes(
			attribute.String("profile", o.Profile),
		))
	}
	if o.Stopped {
		m.earlyStop.Add(ctx, 1)
	}
}

// RecordRequestStart increments the in-flight request count.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd decrements in-flight requests and records the completed request.
func (m *Metrics) RecordRequestEnd(ctx context.Context, method, route string, status int, duration time.Duration) {
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
	))
}
