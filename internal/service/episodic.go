package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riverlabs/nexus/internal/domain"
)

// EpisodicService stores and recalls embedded dialogue turns.
type EpisodicService struct {
	index    domain.MemoryIndex
	embedder domain.EmbeddingClient
	logger   *zap.Logger
}

func NewEpisodicService(index domain.MemoryIndex, embedder domain.EmbeddingClient, logger *zap.Logger) *EpisodicService {
	return &EpisodicService{index: index, embedder: embedder, logger: logger}
}

// EnsureIndex creates the vector index at the embedder's dimensionality.
// Idempotent, intended for startup.
func (s *EpisodicService) EnsureIndex(ctx context.Context) error {
	return s.index.EnsureIndex(ctx, s.embedder.Dimension())
}

// Store embeds one turn and upserts it keyed by its message id. A repeated
// store for the same message overwrites rather than duplicating.
func (s *EpisodicService) Store(ctx context.Context, userID, sessionID, messageID uuid.UUID, content, role string) error {
	vec, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed memory content: %w", err)
	}

	entry := &domain.MemoryEntry{
		MessageID: messageID,
		UserID:    userID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Embedding: vec,
	}
	if err := s.index.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("upsert memory entry: %w", err)
	}

	s.logger.Debug("stored episodic memory",
		zap.String("message_id", messageID.String()), zap.String("role", role))
	return nil
}

// Recall returns the user's memories most similar to the query, descending
// by similarity, bounded to limit.
func (s *EpisodicService) Recall(ctx context.Context, userID uuid.UUID, query string, limit int) ([]domain.MemoryResult, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed recall query: %w", err)
	}

	results, err := s.index.Search(ctx, userID, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("search memories: %w", err)
	}
	return results, nil
}
