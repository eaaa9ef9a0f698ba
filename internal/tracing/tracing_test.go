package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitDisabled(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	shutdown, err := Init(context.Background(), Config{}, zap.New(core))
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	entries := logs.FilterMessage("tracing configured").All()
	require.Len(t, entries, 1)
	assert.Equal(t, false, entries[0].ContextMap()["tracing_enabled"])
}

func TestInitUnsupportedProtocolDegrades(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	shutdown, err := Init(context.Background(), Config{Enabled: true, Protocol: "carrier-pigeon"}, zap.New(core))
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("tracing init failed").Len())
}

func TestSampler(t *testing.T) {
	assert.Equal(t, "parentbased_always_on", SamplerName(0))
	assert.Equal(t, "parentbased_always_on", SamplerName(1))
	assert.Equal(t, "parentbased_traceidratio:0.25", SamplerName(0.25))

	assert.Contains(t, Sampler(0).Description(), "AlwaysOnSampler")
	assert.Contains(t, Sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}
