package tracing

import (
	"context"
	"time"
	"wiki-ui-suite/pkg/logg"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Span struct {
	span   trace.Span
	logger *zap.Logger
	name   string
	start  time.Time
}

func StartSpan(ctx context.Context, tracer trace.Tracer, logger *zap.Logger, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))

	return ctx, &Span{
		span:   span,
		logger: logger,
		name:   name,
		start:  time.Now(),
	}
}

// End closes the span, recording err when it is non-nil. Every step is also logged at
// debug level with its duration, so a run without an exporter still shows where time
// went and where a step broke.
func (s *Span) End(err error) {
	elapsed := zap.Duration(logg.Elapsed, time.Since(s.start))

	if err != nil {
		s.span.SetStatus(codes.Error, err.Error())
		s.span.RecordError(err)
		s.logger.Debug("Step failed", zap.String("span", s.name), elapsed, zap.Error(err))
	} else {
		s.span.SetStatus(codes.Ok, "")
		s.logger.Debug("Step finished", zap.String("span", s.name), elapsed)
	}

	s.span.End()
}

func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}
