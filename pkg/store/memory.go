package store

import (
	"context"
	"math"
	"sort"

	"github.com/kball/docask/internal/models"
)

// MemoryStore keeps embedded chunks in process memory and answers queries
// with a cosine-similarity scan. The index lives for a single run, which
// matches the one-question lifecycle of the CLI.
type MemoryStore struct {
	chunks []models.Chunk
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) Add(ctx context.Context, chunks []models.Chunk) error {
	ms.chunks = append(ms.chunks, chunks...)
	return nil
}

func (ms *MemoryStore) Search(ctx context.Context, embedding []float32, limit int) ([]models.Chunk, error) {
	type scored struct {
		chunk models.Chunk
		score float64
	}

	results := make([]scored, 0, len(ms.chunks))
	for _, chunk := range ms.chunks {
		results = append(results, scored{
			chunk: chunk,
			score: cosineSimilarity(embedding, chunk.Embedding),
		})
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if limit < 0 {
		limit = 0
	}
	if limit > len(results) {
		limit = len(results)
	}

	chunks := make([]models.Chunk, 0, limit)
	for _, result := range results[:limit] {
		chunks = append(chunks, result.chunk)
	}
	return chunks, nil
}

func (ms *MemoryStore) Close() {}

// Len reports the number of indexed chunks.
func (ms *MemoryStore) Len() int {
	return len(ms.chunks)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
