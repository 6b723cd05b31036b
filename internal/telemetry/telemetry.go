// Package telemetry configures OpenTelemetry tracing for the test dialog
package telemetry

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the tracer name used by the test dialog packages
const InstrumentationName = "github.com/KirkDiggler/dnd-test-dialog"

// Options configure tracing
type Options struct {
	ServiceName string
	// Endpoint is an OTLP/HTTP URL; empty disables export
	Endpoint string
	Enabled  bool
}

// Setup initializes an OTel tracer provider exporting over OTLP/HTTP.
// Without an endpoint, or when disabled, it returns a no-op shutdown.
func Setup(ctx context.Context, opts Options) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if !opts.Enabled || opts.Endpoint == "" {
		log.Printf("Telemetry: tracing disabled")
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(opts.Endpoint))
	if err != nil {
		return noop, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(opts.ServiceName)))
	if err != nil {
		return noop, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	log.Printf("Telemetry: exporting traces for %s to %s", opts.ServiceName, opts.Endpoint)
	return tp.Shutdown, nil
}

// Tracer returns the tracer for the test dialog packages from the global provider
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}
