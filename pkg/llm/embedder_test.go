package llm_test

import (
	"context"
	"os"
	"testing"

	"github.com/kball/docask/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedderWithConfig(t *testing.T) {
	emb, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:     "nomic-embed-text:latest",
		BaseURL:   "http://localhost:11434",
		RateLimit: 5.0,
		BatchSize: 16,
	})
	assert.NoError(t, err)
	assert.NotNil(t, emb)
}

func TestNewEmbedderDefaults(t *testing.T) {
	emb, err := llm.NewEmbedder()
	assert.NoError(t, err)
	assert.NotNil(t, emb)
}

// Requires a running Ollama server with the embedding model pulled:
// TEST_OLLAMA_URL=http://localhost:11434 go test ./pkg/llm
func TestEmbedDocuments(t *testing.T) {
	baseURL := os.Getenv("TEST_OLLAMA_URL")
	if baseURL == "" {
		t.Skip("TEST_OLLAMA_URL not set")
	}

	emb, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{BaseURL: baseURL})
	require.NoError(t, err)

	ctx := context.Background()
	vectors, err := emb.EmbedDocuments(ctx, []string{
		"This is the first chunk.",
		"And this is the second chunk.",
	})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, len(vectors[0]), len(vectors[1]))
	assert.NotEmpty(t, vectors[0])

	query, err := emb.EmbedQuery(ctx, "first chunk")
	require.NoError(t, err)
	assert.Len(t, query, len(vectors[0]))
}
