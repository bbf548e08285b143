package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riverlabs/nexus/internal/domain"
)

// MetricsStore is the append-only time series of consciousness snapshots.
type MetricsStore struct {
	db *pgxpool.Pool
}

func NewMetricsStore(db *pgxpool.Pool) *MetricsStore {
	return &MetricsStore{db: db}
}

func (s *MetricsStore) Append(ctx context.Context, m *domain.ConsciousnessState) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO consciousness_metrics
			(user_id, session_id, epistemic_humility, belief_volatility, contradiction_awareness, depth_of_inquiry, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.UserID, m.SessionID, m.EpistemicHumility, m.BeliefVolatility,
		m.ContradictionAwareness, m.DepthOfInquiry, m.Timestamp,
	)
	return err
}

// Latest returns the most recent snapshot for the user within the trailing
// window, or ErrNotFound when the user has no snapshot in range.
func (s *MetricsStore) Latest(ctx context.Context, userID uuid.UUID, window time.Duration) (*domain.ConsciousnessState, error) {
	m := &domain.ConsciousnessState{}
	err := s.db.QueryRow(ctx,
		`SELECT user_id, session_id, epistemic_humility, belief_volatility, contradiction_awareness, depth_of_inquiry, recorded_at
		 FROM consciousness_metrics
		 WHERE user_id = $1 AND recorded_at > NOW() - make_interval(secs => $2)
		 ORDER BY recorded_at DESC
		 LIMIT 1`,
		userID, window.Seconds(),
	).Scan(&m.UserID, &m.SessionID, &m.EpistemicHumility, &m.BeliefVolatility,
		&m.ContradictionAwareness, &m.DepthOfInquiry, &m.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}
