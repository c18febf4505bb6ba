package bootstrap

import (
	"context"
	"fmt"
	"wiki-ui-suite/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const serviceName = "wiki-ui-suite"

// installTracing registers a stdout span exporter when tracing is enabled. Otherwise the
// global no-op provider stays in place and spans cost nothing.
func installTracing(lc fx.Lifecycle, conf *config.Config, logger *zap.Logger) error {
	if !conf.AppConfig.Trace {
		return nil
	}

	tp, err := newTraceProvider()
	if err != nil {
		return err
	}

	otel.SetTracerProvider(tp)
	logger.Info("Tracing enabled", zap.String("exporter", "stdout"))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})

	return nil
}

func newTraceProvider() (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create trace resource: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}
