package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Observability owns the OpenTelemetry meter and tracer providers of the process.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
	matchCounter   otelmetric.Int64Counter
	matchDuration  otelmetric.Float64Histogram
}

// New installs global meter and tracer providers. Metrics are exported
// through the default prometheus registry served on /metrics.
func New(serviceName string) *Observability {
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.1))),
	)
	otel.SetTracerProvider(tracerProvider)

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{tracerProvider: tracerProvider}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	o := &Observability{
		meterProvider:  provider,
		tracerProvider: tracerProvider,
		meter:          provider.Meter(serviceName),
	}
	o.initInstruments()
	return o
}

func (o *Observability) initInstruments() {
	o.jobCounter, _ = o.meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	o.jobDuration, _ = o.meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	o.matchCounter, _ = o.meter.Int64Counter(
		"matching.runs",
		otelmetric.WithDescription("Match requests served by direction and status"),
	)
	o.matchDuration, _ = o.meter.Float64Histogram(
		"matching.duration",
		otelmetric.WithDescription("End-to-end match request duration"),
		otelmetric.WithUnit("ms"),
	)
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o == nil || o.jobCounter == nil {
		return
	}
	o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string) {
	if o == nil || o.jobDuration == nil {
		return
	}
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

// RecordMatchRun counts one match request and its duration.
func (o *Observability) RecordMatchRun(ctx context.Context, direction string, duration time.Duration, status string) {
	if o == nil || o.matchCounter == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("direction", direction),
		attribute.String("status", status),
	)
	o.matchCounter.Add(ctx, 1, attrs)
	o.matchDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
