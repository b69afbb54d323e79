package tracer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/admin-bn/company-controller/internal/platform/tracer"
)

func TestNoopTracer(t *testing.T) {
	ctx := context.Background()
	newCtx, span := tracer.NewNoop().Start(ctx, "agent.send_offer", attribute.String("employee_id", "e-1"))

	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)
	span.SetAttributes(attribute.Int("status", 200))
	span.End(errors.New("boom"))
}

func TestOTelTracer_WithInjectedProvider(t *testing.T) {
	tr := tracer.NewOTel(noop.NewTracerProvider().Tracer("test"))

	_, span := tr.Start(context.Background(), "agent.get_connection")
	require.NotNil(t, span)
	assert.NotPanics(t, func() { span.End(errors.New("timeout")) })
}
