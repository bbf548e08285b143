package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/riverlabs/nexus/internal/domain"
)

// MemoryIndexStore is the pgvector-backed episodic memory index.
type MemoryIndexStore struct {
	db *pgxpool.Pool
}

func NewMemoryIndexStore(db *pgxpool.Pool) *MemoryIndexStore {
	return &MemoryIndexStore{db: db}
}

// EnsureIndex creates the episodic memory table and its vector index if
// absent. The embedding column is sized to dim, so all entries share the
// index's configured dimensionality.
func (s *MemoryIndexStore) EnsureIndex(ctx context.Context, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("invalid embedding dimension: %d", dim)
	}

	if _, err := s.db.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("ensure vector extension: %w", err)
	}

	stmt := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS episodic_memories (
			message_id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			session_id UUID NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, dim)
	if _, err := s.db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("ensure episodic memory table: %w", err)
	}

	if _, err := s.db.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS idx_episodic_user ON episodic_memories (user_id)`,
	); err != nil {
		return fmt.Errorf("ensure episodic user index: %w", err)
	}

	if _, err := s.db.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS idx_episodic_embedding
		 ON episodic_memories USING hnsw (embedding vector_cosine_ops)`,
	); err != nil {
		return fmt.Errorf("ensure episodic vector index: %w", err)
	}

	return nil
}

// Upsert writes one entry keyed by message id. Re-writing the same message
// replaces its content and embedding.
func (s *MemoryIndexStore) Upsert(ctx context.Context, e *domain.MemoryEntry) error {
	vec := pgvector.NewVector(e.Embedding)
	return s.db.QueryRow(ctx,
		`INSERT INTO episodic_memories (message_id, user_id, session_id, role, content, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (message_id) DO UPDATE
		 SET content = EXCLUDED.content, embedding = EXCLUDED.embedding
		 RETURNING created_at`,
		e.MessageID, e.UserID, e.SessionID, e.Role, e.Content, vec,
	).Scan(&e.CreatedAt)
}

// Search returns the user's entries ordered by descending cosine similarity.
func (s *MemoryIndexStore) Search(ctx context.Context, userID uuid.UUID, embedding []float32, limit int) ([]domain.MemoryResult, error) {
	if limit <= 0 {
		limit = 5
	}

	vec := pgvector.NewVector(embedding)
	rows, err := s.db.Query(ctx,
		`SELECT content, role, created_at, 1 - (embedding <=> $1) AS score
		 FROM episodic_memories
		 WHERE user_id = $2
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		vec, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("memory search query: %w", err)
	}
	defer rows.Close()

	var results []domain.MemoryResult
	for rows.Next() {
		var m domain.MemoryResult
		if err := rows.Scan(&m.Content, &m.Role, &m.Timestamp, &m.Score); err != nil {
			return nil, fmt.Errorf("scan memory row: %w", err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}
