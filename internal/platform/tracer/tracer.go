// Package tracer hides OpenTelemetry behind a small interface so that
// agent calls can be traced in production and traced by nothing in tests.
package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Tracer interface {
	Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, Span)
}

// Span is ended exactly once with the operation's error (nil on success).
type Span interface {
	End(err error)
	SetAttributes(attrs ...attribute.KeyValue)
}

type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTel uses the global tracer provider when t is nil.
func NewOTel(t trace.Tracer) *OTelTracer {
	if t == nil {
		t = otel.Tracer("company-controller")
	}
	return &OTelTracer{tracer: t}
}

func (t *OTelTracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}

func (s *otelSpan) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}

type NoopTracer struct{}

func NewNoop() *NoopTracer { return &NoopTracer{} }

func (NoopTracer) Start(ctx context.Context, _ string, _ ...attribute.KeyValue) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error)                         {}
func (noopSpan) SetAttributes(...attribute.KeyValue) {}

var (
	_ Tracer = (*OTelTracer)(nil)
	_ Tracer = NoopTracer{}
)
