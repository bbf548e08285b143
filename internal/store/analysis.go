package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riverlabs/nexus/internal/domain"
)

// AnalysisStore persists completed analyses as JSONB for later inspection.
// Callers treat writes as best-effort; the cache and recomputation remain
// the read path.
type AnalysisStore struct {
	db *pgxpool.Pool
}

func NewAnalysisStore(db *pgxpool.Pool) *AnalysisStore {
	return &AnalysisStore{db: db}
}

func (s *AnalysisStore) Create(ctx context.Context, r *domain.AnalysisResult) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO analyses (id, input_text, result, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		r.ID, r.InputText, payload, r.CreatedAt,
	)
	return err
}
