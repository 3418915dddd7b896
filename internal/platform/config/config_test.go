package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/sweeper")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.TriageTopK)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 5, cfg.BatchConcurrency)
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.Equal(t, 200, cfg.BaselineTokens)
	assert.False(t, cfg.DryRun)
	assert.True(t, cfg.IsLocal())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/sweeper")
	t.Setenv("TRIAGE_TOP_K", "25")
	t.Setenv("DRY_RUN", "true")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.TriageTopK)
	assert.True(t, cfg.DryRun)
	assert.False(t, cfg.IsLocal())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/sweeper")
	t.Setenv("LLM_BATCH_SIZE", "0")

	_, err := Load()
	assert.Error(t, err)
}
