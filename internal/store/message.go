package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riverlabs/nexus/internal/domain"
)

// MessageStore records chat sessions and raw messages.
type MessageStore struct {
	db *pgxpool.Pool
}

func NewMessageStore(db *pgxpool.Pool) *MessageStore {
	return &MessageStore{db: db}
}

func (s *MessageStore) EnsureSession(ctx context.Context, sessionID, userID uuid.UUID, mode domain.ChatMode) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO sessions (id, user_id, mode)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO NOTHING`,
		sessionID, userID, mode,
	)
	return err
}

func (s *MessageStore) SaveMessage(ctx context.Context, sessionID, userID uuid.UUID, role, content string, mode domain.ChatMode) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRow(ctx,
		`INSERT INTO messages (session_id, user_id, role, content, mode)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		sessionID, userID, role, content, mode,
	).Scan(&id)
	return id, err
}
