package tracing

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Provider wraps the installed tracer provider. A Provider without an
// exporter (tracing disabled) is valid; its methods do nothing.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// ForceFlush exports every finished span still buffered by the batcher.
func (p *Provider) ForceFlush(ctx context.Context) error {
	if p == nil || p.tp == nil {
		return nil
	}
	return p.tp.ForceFlush(ctx)
}

func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// Init installs an OTLP HTTP tracer provider when OTEL_EXPORTER_OTLP_ENDPOINT
// is set. The exporter reads the endpoint (a URL such as
// http://collector:4318) and the other OTEL_EXPORTER_OTLP_* variables
// itself. Without an endpoint the global no-op provider stays in place.
func Init(ctx context.Context, serviceName string, logger *slog.Logger) *Provider {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		logger.Debug("tracing disabled", "service", serviceName)
		return &Provider{}
	}
	exp, err := otlptracehttp.New(ctx)
	if err != nil {
		logger.Error("otlp exporter init", "err", err)
		return &Provider{}
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		logger.Warn("otel resource init", "err", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp), sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)
	logger.Info("tracing enabled", "service", serviceName, "endpoint", endpoint)
	return &Provider{tp: tp}
}
