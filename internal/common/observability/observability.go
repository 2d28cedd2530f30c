package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability owns the otel meter and tracer providers for the process.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	requestCounter otelmetric.Int64Counter
	requestLatency otelmetric.Float64Histogram
}

// Options selects the exporters. An empty JaegerEndpoint leaves tracing as a no-op.
type Options struct {
	ServiceName    string
	JaegerEndpoint string
}

// New installs global meter and tracer providers. Exporter failures degrade
// to no-op instruments and are returned for logging.
func New(opts Options) (*Observability, error) {
	o := &Observability{tracer: noop.NewTracerProvider().Tracer(opts.ServiceName)}
	var firstErr error

	exporter, err := prometheus.New()
	if err != nil {
		firstErr = fmt.Errorf("create prometheus exporter: %w", err)
	} else {
		o.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter))
		otel.SetMeterProvider(o.meterProvider)
		o.meter = o.meterProvider.Meter(opts.ServiceName)

		o.requestCounter, _ = o.meter.Int64Counter(
			"backend.requests",
			otelmetric.WithDescription("Number of backend requests issued"),
		)
		o.requestLatency, _ = o.meter.Float64Histogram(
			"backend.request.duration",
			otelmetric.WithDescription("Backend request duration"),
			otelmetric.WithUnit("ms"),
		)
	}

	if opts.JaegerEndpoint != "" {
		exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(opts.JaegerEndpoint)))
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("create jaeger exporter: %w", err)
			}
		} else {
			o.tracerProvider = sdktrace.NewTracerProvider(
				sdktrace.WithBatcher(exp),
				sdktrace.WithResource(resource.NewSchemaless(
					attribute.String("service.name", opts.ServiceName),
				)),
			)
			otel.SetTracerProvider(o.tracerProvider)
			o.tracer = o.tracerProvider.Tracer(opts.ServiceName)
		}
	}

	return o, firstErr
}

// Tracer returns the tracer used for backend request spans.
func (o *Observability) Tracer() trace.Tracer {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer("")
	}
	return o.tracer
}

// RecordRequest records one backend round trip.
func (o *Observability) RecordRequest(ctx context.Context, method string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("method", method),
		attribute.Int("status", status),
	)
	if o.requestCounter != nil {
		o.requestCounter.Add(ctx, 1, attrs)
	}
	if o.requestLatency != nil {
		o.requestLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
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
