package store

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kball/docask/internal/models"
	"github.com/pgvector/pgvector-go"
)

type VectorStoreConfig struct {
	ConnString string
	TableName  string
	VectorDim  int
	BatchSize  int
}

// VectorStore is the persistent pgvector backend, used when a database
// URL is configured so an index can be reused across runs.
type VectorStore struct {
	config VectorStoreConfig
	pool   *pgxpool.Pool
}

func NewWithConfig(config VectorStoreConfig) (*VectorStore, error) {
	if config.TableName == "" {
		config.TableName = "documents"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768
	}
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	vs := &VectorStore{
		config: config,
		pool:   pool,
	}

	if err := vs.initialize(); err != nil {
		pool.Close()
		return nil, err
	}

	return vs, nil
}

func (vs *VectorStore) initialize() error {
	ctx := context.Background()

	// Enable pgvector extension
	_, err := vs.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %v", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			chunk_index INTEGER,
			content TEXT,
			embedding vector(%d)
		)`, vs.config.TableName, vs.config.VectorDim)

	_, err = vs.pool.Exec(ctx, createTable)
	if err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		vs.config.TableName, vs.config.TableName)

	_, err = vs.pool.Exec(ctx, createIndex)
	if err != nil {
		return fmt.Errorf("failed to create index: %v", err)
	}

	return nil
}

// Add upserts pre-embedded chunks in a single transaction.
func (vs *VectorStore) Add(ctx context.Context, chunks []models.Chunk) error {
	tx, err := vs.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, path, chunk_index, content, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding`,
		vs.config.TableName)

	for _, chunk := range chunks {
		if chunk.Embedding == nil {
			return fmt.Errorf("chunk %s_%d has no embedding", chunk.DocumentID, chunk.Index)
		}

		id := fmt.Sprintf("%s_%d", chunk.DocumentID, chunk.Index)
		_, err = tx.Exec(ctx, stmt,
			id,
			chunk.Path,
			chunk.Index,
			sanitizeUTF8(chunk.Content),
			pgvector.NewVector(chunk.Embedding),
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (vs *VectorStore) Search(ctx context.Context, embedding []float32, limit int) ([]models.Chunk, error) {
	if limit < 1 {
		limit = 1
	}

	query := fmt.Sprintf(`
		SELECT id, path, chunk_index, content
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2`,
		vs.config.TableName)

	rows, err := vs.pool.Query(ctx, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %v", err)
	}
	defer rows.Close()

	var chunks []models.Chunk
	for rows.Next() {
		var chunk models.Chunk
		err := rows.Scan(
			&chunk.DocumentID,
			&chunk.Path,
			&chunk.Index,
			&chunk.Content,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}

func (vs *VectorStore) Close() {
	if vs.pool != nil {
		vs.pool.Close()
	}
}

func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}
