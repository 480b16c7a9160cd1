package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultHost, cfg.EmbeddingHost)
	assert.Equal(t, DefaultHost, cfg.AnswerHost)
	assert.Equal(t, DefaultEmbeddingModel, cfg.EmbeddingModel)
	assert.Equal(t, DefaultAnswerModel, cfg.AnswerModel)
	assert.Equal(t, DefaultMaxAnswerTokens, cfg.MaxAnswerTokens)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://models.internal:8080/v1"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithAnswerModel("gpt-4o-mini"),
		WithMaxAnswerTokens(512),
	)

	assert.Equal(t, "http://models.internal:8080/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://models.internal:8080/v1", cfg.AnswerHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.AnswerModel)
	assert.Equal(t, 512, cfg.MaxAnswerTokens)
}

func TestConfigSplitHosts(t *testing.T) {
	cfg := NewConfig(
		WithEmbeddingHost("http://embed.internal:8080/v1"),
		WithAnswerHost("http://answer.internal:8080/v1"),
	)

	assert.Equal(t, "http://embed.internal:8080/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://answer.internal:8080/v1", cfg.AnswerHost)
}

func TestConfigNormalizeAddsVersionSuffix(t *testing.T) {
	cfg := NewConfig(WithHost("http://localhost:11434"))
	cfg.Normalize()

	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.AnswerHost)

	// Trailing slash is handled
	cfg = NewConfig(WithHost("http://localhost:11434/"))
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)

	// Already-suffixed hosts are untouched
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }},
		{"missing answer host", func(c *Config) { c.AnswerHost = "" }},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"missing answer model", func(c *Config) { c.AnswerModel = "" }},
		{"zero answer tokens", func(c *Config) { c.MaxAnswerTokens = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
