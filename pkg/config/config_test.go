package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OLLAMA_BASE_URL", "")
	t.Setenv("DATABASE_URL", "")
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
llm:
  api_key: "gsk_test_key"
  base_url: "https://api.groq.com/openai/v1"
  model: "llama3-70b-8192"
  max_tokens: 1024
  temperature: 0.5

embedder:
  base_url: "http://localhost:11434"
  model: "nomic-embed-text:latest"
  rate_limit: 5.0
  batch_size: 32

database:
  url: "postgres://localhost:5432/test"
  table_name: "test_docs"
  vector_dim: 768
  batch_size: 50

processor:
  chunk_size: 500
  chunk_overlap: 100

retrieval:
  top_k: 6
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "gsk_test_key", config.LLM.APIKey)
	assert.Equal(t, "llama3-70b-8192", config.LLM.Model)
	assert.Equal(t, 1024, config.LLM.MaxTokens)
	assert.Equal(t, 0.5, config.LLM.Temperature)
	assert.Equal(t, "http://localhost:11434", config.Embedder.BaseURL)
	assert.Equal(t, 32, config.Embedder.BatchSize)
	assert.Equal(t, "postgres://localhost:5432/test", config.Database.URL)
	assert.Equal(t, 500, config.Processor.ChunkSize)
	assert.Equal(t, 100, config.Processor.ChunkOverlap)
	assert.Equal(t, 6, config.Retrieval.TopK)
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("llm:\n  api_key: \"gsk_test_key\"\n"), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "https://api.groq.com/openai/v1", config.LLM.BaseURL)
	assert.Equal(t, "llama3-8b-8192", config.LLM.Model)
	assert.Equal(t, 2048, config.LLM.MaxTokens)
	assert.Equal(t, 0.1, config.LLM.Temperature)
	assert.Equal(t, "nomic-embed-text:latest", config.Embedder.Model)
	assert.Equal(t, 1000, config.Processor.ChunkSize)
	assert.Equal(t, 200, config.Processor.ChunkOverlap)
	assert.Equal(t, 4, config.Retrieval.TopK)
	assert.Equal(t, []string{".txt", ".md", ".py", ".js", ".html", ".css"}, config.Loader.Extensions)
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		c := Config{}
		c.LLM.APIKey = "gsk_test_key"
		applyDefaults(&c)
		return c
	}

	tests := []struct {
		name          string
		mutate        func(*Config)
		errorMessages []string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name: "missing api key",
			mutate: func(c *Config) {
				c.LLM.APIKey = ""
			},
			errorMessages: []string{"llm.api_key: a valid Groq API key is required"},
		},
		{
			name: "placeholder api key",
			mutate: func(c *Config) {
				c.LLM.APIKey = "your_groq_api_key_here"
			},
			errorMessages: []string{"llm.api_key: a valid Groq API key is required"},
		},
		{
			name: "out of range llm settings",
			mutate: func(c *Config) {
				c.LLM.MaxTokens = 10000
				c.LLM.Temperature = 3.0
			},
			errorMessages: []string{
				"llm.max_tokens: max_tokens must be between 1 and 8192",
				"llm.temperature: temperature must be between 0 and 2",
			},
		},
		{
			name: "overlap not below chunk size",
			mutate: func(c *Config) {
				c.Processor.ChunkSize = 100
				c.Processor.ChunkOverlap = 100
			},
			errorMessages: []string{
				"processor.chunk_overlap: chunk_overlap must be non-negative and less than chunk_size",
			},
		},
		{
			name: "bad retrieval and embedder settings",
			mutate: func(c *Config) {
				c.Retrieval.TopK = -1
				c.Embedder.RateLimit = 0
				c.Embedder.BatchSize = 0
			},
			errorMessages: []string{
				"embedder.rate_limit: rate_limit must be positive",
				"embedder.batch_size: batch_size must be positive",
				"retrieval.top_k: top_k must be positive",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(&config)

			errors := config.Validate()
			assert.Len(t, errors, len(tt.errorMessages))

			for i, msg := range tt.errorMessages {
				assert.Contains(t, errors[i].Error(), msg)
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_from_env")
	t.Setenv("OLLAMA_BASE_URL", "http://env-ollama:11434")
	t.Setenv("DATABASE_URL", "postgres://env-db:5432/test")

	config := &Config{}
	mergeWithEnv(config)

	assert.Equal(t, "gsk_from_env", config.LLM.APIKey)
	assert.Equal(t, "http://env-ollama:11434", config.Embedder.BaseURL)
	assert.Equal(t, "postgres://env-db:5432/test", config.Database.URL)
}
