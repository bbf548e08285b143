package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BeliefStore owns belief nodes and contradiction edges per user.
// Duplicate claims create duplicate nodes; beliefs are never deleted in
// normal operation.
type BeliefStore interface {
	Create(ctx context.Context, b *Belief) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Belief, error)
	// LinkContradiction records a directed CONTRADICTS edge. Both endpoints
	// must already be persisted beliefs.
	LinkContradiction(ctx context.Context, beliefAID, beliefBID uuid.UUID, explanation string, severity float64) error
}

// MemoryIndex is the embedding-indexed episodic memory per user.
type MemoryIndex interface {
	// EnsureIndex creates the backing index if absent. Idempotent.
	EnsureIndex(ctx context.Context, dim int) error
	// Upsert writes one entry keyed by its message id.
	Upsert(ctx context.Context, e *MemoryEntry) error
	// Search returns up to limit entries for the user ordered by descending
	// cosine similarity to the query embedding.
	Search(ctx context.Context, userID uuid.UUID, embedding []float32, limit int) ([]MemoryResult, error)
}

// MetricsStore is the append-only time series of consciousness snapshots.
type MetricsStore interface {
	Append(ctx context.Context, s *ConsciousnessState) error
	// Latest returns the most recent snapshot for the user within the
	// trailing window, or ErrNotFound if none exists.
	Latest(ctx context.Context, userID uuid.UUID, window time.Duration) (*ConsciousnessState, error)
}

// AnalysisCache memoizes analysis results by content hash with expiry.
// It is an optimization, never a source of truth: implementations treat
// backend errors and malformed payloads as misses.
type AnalysisCache interface {
	Get(ctx context.Context, text string) (*AnalysisResult, bool)
	Put(ctx context.Context, text string, result *AnalysisResult)
}

// AnalysisStore persists completed analyses durably (best-effort).
type AnalysisStore interface {
	Create(ctx context.Context, r *AnalysisResult) error
}

// MessageStore records sessions and raw chat messages.
type MessageStore interface {
	EnsureSession(ctx context.Context, sessionID, userID uuid.UUID, mode ChatMode) error
	SaveMessage(ctx context.Context, sessionID, userID uuid.UUID, role, content string, mode ChatMode) (uuid.UUID, error)
}

// OracleClient is the reasoning oracle boundary. The structured methods
// parse oracle output into validated shapes; callers decide per-call whether
// a failure is fatal (only Chat for the user-visible reply is).
type OracleClient interface {
	ExtractClaims(ctx context.Context, message string) ([]ExtractedClaim, error)
	MatchContradictions(ctx context.Context, newClaim string, existingClaims []string) ([]ContradictionFinding, error)
	AnalyzeSyntactic(ctx context.Context, text string) ([]SentenceComplexity, []TransitivityInstance, error)
	AnalyzeSemantic(ctx context.Context, text string) (*SemanticAnalysis, error)
	AnalyzeDiscourse(ctx context.Context, text string) (*DiscourseAnalysis, error)
	AnalyzeSynthesis(ctx context.Context, text string) (*CriticalSynthesis, error)
	Chat(ctx context.Context, messages []ChatMessage) (string, error)
}

// EmbeddingClient produces fixed-length embedding vectors.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
