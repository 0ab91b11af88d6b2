package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/ib-77/ropline/internal/config"
)

// InstrumentationName names the tracer handed to compiled pipelines.
const InstrumentationName = "github.com/ib-77/ropline"

// InitTracer installs a global tracer provider exporting pipeline spans to w
// in the format chosen by cfg.Exporter. The returned function flushes and
// shuts the provider down.
func InitTracer(cfg config.TracingConfig, w io.Writer, logger *slog.Logger) (func(context.Context) error, error) {
	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	switch cfg.Exporter {
	case "", "stdout":
	case "pretty":
		opts = append(opts, stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("telemetry: unknown trace exporter %q", cfg.Exporter)
	}

	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			semconv.ServiceName(cfg.Service),
			attribute.String("rop.instrumentation", InstrumentationName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.Info("pipeline tracing enabled",
		slog.String("service", cfg.Service),
		slog.String("exporter", cfg.Exporter))

	return tp.Shutdown, nil
}

// Tracer returns the ropline tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}
