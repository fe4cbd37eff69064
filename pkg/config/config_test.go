package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ScorerPositional, cfg.Scorer)
	assert.True(t, cfg.ExcludeSelfCandidates)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SCORER", ScorerSparse)
	t.Setenv("EXCLUDE_SELF_CANDIDATES", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL_SECONDS", "60")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ScorerSparse, cfg.Scorer)
	assert.False(t, cfg.ExcludeSelfCandidates)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 60, cfg.CacheTTLSeconds)
}

func TestLoad_RejectsUnknownScorer(t *testing.T) {
	t.Setenv("SCORER", "euclidean")

	_, err := Load()
	assert.Error(t, err)
}
