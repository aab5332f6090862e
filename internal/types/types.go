package types

import (
	"context"

	"github.com/kball/docask/internal/models"
)

// Core interfaces
type Loader interface {
	Load(path string) ([]models.Document, error)
}

type Processor interface {
	Process(docs []models.Document) ([]models.Chunk, error)
}

type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type VectorStore interface {
	Add(ctx context.Context, chunks []models.Chunk) error
	Search(ctx context.Context, embedding []float32, limit int) ([]models.Chunk, error)
	Close()
}
