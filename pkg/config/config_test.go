package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("NEO4J_URI", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "bolt://localhost:7687", cfg.Database.URI)
	assert.Equal(t, 10, cfg.Retrieval.ResultLimit)
	assert.Equal(t, 2, cfg.Retrieval.ExpansionDepth)
	assert.Equal(t, 50, cfg.Retrieval.ExpansionNodeCap)
	assert.Equal(t, 0.5, cfg.Retrieval.LexicalWeight)
	assert.Equal(t, 0.5, cfg.Retrieval.VectorWeight)
	assert.Equal(t, 2, cfg.Pipeline.MaxRefinements)
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("NEO4J_URI", "bolt://graph.internal:7687")
	t.Setenv("NEO4J_USER", "reader")
	t.Setenv("NEO4J_PASSWORD", "hunter2")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bolt://graph.internal:7687", cfg.Database.URI)
	assert.Equal(t, "reader", cfg.Database.Username)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
}

func TestStringRedactsSecrets(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Password = "hunter2"
	cfg.LLM.APIKey = "sk-live"
	cfg.Embedding.APIKey = "sk-live"

	rendered := cfg.String()
	assert.NotContains(t, rendered, "hunter2")
	assert.NotContains(t, rendered, "sk-live")
	assert.True(t, strings.Contains(rendered, "***"))
}
