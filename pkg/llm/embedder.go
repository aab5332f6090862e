package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"golang.org/x/time/rate"
)

// EmbedderConfig represents the configuration for the embedding client.
type EmbedderConfig struct {
	Model     string
	BaseURL   string  // Ollama server URL
	RateLimit float64 // embedding requests per second
	BatchSize int
}

// Embedder computes embeddings through a local Ollama server, rate
// limiting the calls so a large index build does not flood it.
type Embedder struct {
	config   EmbedderConfig
	embedder *embeddings.EmbedderImpl
	limiter  *rate.Limiter
}

func NewEmbedderWithConfig(config EmbedderConfig) (*Embedder, error) {
	if config.Model == "" {
		config.Model = "nomic-embed-text:latest"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 10.0
	}
	if config.BatchSize == 0 {
		config.BatchSize = 64
	}

	client, err := ollama.New(
		ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithBatchSize(config.BatchSize))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	return &Embedder{
		config:   config,
		embedder: embedder,
		limiter:  rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

func NewEmbedder() (*Embedder, error) {
	return NewEmbedderWithConfig(EmbedderConfig{})
}

func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed documents: %w", err)
	}
	return vectors, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	vector, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return vector, nil
}
