package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitTelemetry_Disabled(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := InitTelemetry(context.Background(), Options{ServiceName: "tileworld"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.Equal(t, before, otel.GetTracerProvider(), "глобальный провайдер не меняется")
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTelemetry_Enabled(t *testing.T) {
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	shutdown, err := InitTelemetry(context.Background(), Options{
		Enabled:     true,
		ServiceName: "tileworld-test",
		Endpoint:    "127.0.0.1:4318",
	})
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)

	// Без спанов экспорт не выполняется, коллектор не нужен
	assert.NoError(t, shutdown(context.Background()))
}

func TestEndpointOrDefault(t *testing.T) {
	assert.Equal(t, "localhost:4318", endpointOrDefault(""))
	assert.Equal(t, "otel:4318", endpointOrDefault("otel:4318"))
}
