package main

import (
	"context"
	"testing"

	"codeforge/internal/config"
	"codeforge/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockBackendRunsPipelineEndToEnd(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Provider.Backend = "mock"

	client, appGen, err := buildProvider(context.Background(), cfg)
	require.NoError(t, err)

	orch := buildOrchestrator(client, appGen, cfg)
	result := orch.Execute(context.Background(), types.NewRequest("create a sample component"))

	require.True(t, result.Success, "mock backend must yield usable output: %s", result.Error)
	require.NotEmpty(t, result.Artifacts)
	assert.Equal(t, "src/components/Sample.tsx", result.Artifacts[0].Path)
}

func TestBuildProviderRejectsUnknownBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Provider.Backend = "carrier-pigeon"

	_, _, err := buildProvider(context.Background(), cfg)
	assert.Error(t, err)
}
