package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates all Postgres tables and indexes if absent.
// Safe to call on every startup. The episodic memory table is created
// separately by MemoryIndexStore.EnsureIndex because its embedding column
// is sized by the configured dimensionality.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			mode TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			session_id UUID NOT NULL REFERENCES sessions(id),
			user_id UUID NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			mode TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS beliefs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			claim TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			source_message_id UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_beliefs_user_created
			ON beliefs (user_id, created_at DESC)`,

		`CREATE TABLE IF NOT EXISTS belief_contradictions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			belief_a_id UUID NOT NULL REFERENCES beliefs(id),
			belief_b_id UUID NOT NULL REFERENCES beliefs(id),
			explanation TEXT NOT NULL,
			severity DOUBLE PRECISION NOT NULL,
			detected_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_contradictions_belief_a
			ON belief_contradictions (belief_a_id)`,

		`CREATE TABLE IF NOT EXISTS consciousness_metrics (
			id BIGSERIAL PRIMARY KEY,
			user_id UUID NOT NULL,
			session_id UUID NOT NULL,
			epistemic_humility DOUBLE PRECISION NOT NULL,
			belief_volatility DOUBLE PRECISION NOT NULL,
			contradiction_awareness DOUBLE PRECISION NOT NULL,
			depth_of_inquiry DOUBLE PRECISION NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_metrics_user_recorded
			ON consciousness_metrics (user_id, recorded_at DESC)`,

		`CREATE TABLE IF NOT EXISTS analyses (
			id UUID PRIMARY KEY,
			input_text TEXT NOT NULL,
			result JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
