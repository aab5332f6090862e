package processor

import (
	"fmt"

	"github.com/kball/docask/internal/models"
	"github.com/tmc/langchaingo/textsplitter"
)

type ProcessorConfig struct {
	ChunkSize    int
	ChunkOverlap int
}

type Processor struct {
	config   ProcessorConfig
	splitter textsplitter.RecursiveCharacter
}

func NewWithConfig(config ProcessorConfig) Processor {
	if config.ChunkSize == 0 {
		config.ChunkSize = 1000
	}
	if config.ChunkOverlap == 0 {
		config.ChunkOverlap = 200
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(config.ChunkSize),
		textsplitter.WithChunkOverlap(config.ChunkOverlap),
	)

	return Processor{
		config:   config,
		splitter: splitter,
	}
}

// Process splits each document into overlapping chunks, keeping the
// source path and chunk index for retrieval-time attribution.
func (p *Processor) Process(docs []models.Document) ([]models.Chunk, error) {
	var chunks []models.Chunk

	for _, doc := range docs {
		pieces, err := p.splitter.SplitText(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to split %s: %w", doc.Path, err)
		}

		for i, piece := range pieces {
			chunks = append(chunks, models.Chunk{
				DocumentID: doc.ID,
				Path:       doc.Path,
				Index:      i,
				Content:    piece,
			})
		}
	}

	return chunks, nil
}
