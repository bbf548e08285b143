package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riverlabs/nexus/internal/domain"
)

// BeliefStore persists belief nodes and CONTRADICTS edges in Postgres.
type BeliefStore struct {
	db *pgxpool.Pool
}

func NewBeliefStore(db *pgxpool.Pool) *BeliefStore {
	return &BeliefStore{db: db}
}

func (s *BeliefStore) Create(ctx context.Context, b *domain.Belief) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO beliefs (user_id, claim, confidence, source_message_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		b.UserID, b.Claim, b.Confidence, b.SourceMessageID,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (s *BeliefStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Belief, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, claim, confidence, source_message_id, created_at, updated_at
		 FROM beliefs WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var beliefs []domain.Belief
	for rows.Next() {
		var b domain.Belief
		if err := rows.Scan(&b.ID, &b.UserID, &b.Claim, &b.Confidence, &b.SourceMessageID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		beliefs = append(beliefs, b)
	}
	return beliefs, rows.Err()
}

// LinkContradiction inserts a CONTRADICTS edge. The foreign keys reject
// edges whose endpoints were never persisted.
func (s *BeliefStore) LinkContradiction(ctx context.Context, beliefAID, beliefBID uuid.UUID, explanation string, severity float64) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO belief_contradictions (belief_a_id, belief_b_id, explanation, severity)
		 VALUES ($1, $2, $3, $4)`,
		beliefAID, beliefBID, explanation, severity,
	)
	return err
}
