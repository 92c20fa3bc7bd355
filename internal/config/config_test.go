package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "flowgraph-mock-1", cfg.ModelName)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.InDelta(t, 0.3, cfg.FailureRate, 1e-9)
	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, uint64(42), cfg.Seed)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FLOWGRAPH_MODEL_NAME", "test-model")
	t.Setenv("FLOWGRAPH_FAILURE_RATE", "0.75")
	t.Setenv("FLOWGRAPH_TRACING", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-model", cfg.ModelName)
	assert.InDelta(t, 0.75, cfg.FailureRate, 1e-9)
	assert.True(t, cfg.TracingEnabled)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("FLOWGRAPH_FAILURE_RATE", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}
