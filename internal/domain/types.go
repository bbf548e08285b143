package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMode selects which engine processes a turn.
type ChatMode string

const (
	// ModeConversation is pure epistemic dialogue with belief tracking.
	ModeConversation ChatMode = "conversation"
	// ModeAnalysis is pure 4-layer critical discourse analysis.
	ModeAnalysis ChatMode = "analysis"
	// ModeIntegrated combines both: claims are extracted and analyzed inline.
	ModeIntegrated ChatMode = "integrated"
)

// ValidChatMode reports whether s names a known mode.
func ValidChatMode(s string) bool {
	switch ChatMode(s) {
	case ModeConversation, ModeAnalysis, ModeIntegrated:
		return true
	}
	return false
}

// Belief is a node in a user's epistemic graph: a claim the user holds,
// with the confidence they hold it at.
type Belief struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Claim           string    `json:"claim"`
	Confidence      float64   `json:"confidence"`
	SourceMessageID uuid.UUID `json:"source_message_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Contradiction pairs an existing belief with a conflicting new one.
type Contradiction struct {
	BeliefA     Belief  `json:"belief_a"`
	BeliefB     Belief  `json:"belief_b"`
	Explanation string  `json:"explanation"`
	Severity    float64 `json:"severity"`
}

// ExtractedClaim is one candidate belief pulled out of a user message.
type ExtractedClaim struct {
	Claim      string  `json:"claim"`
	Confidence float64 `json:"confidence"`
	IsExplicit bool    `json:"is_explicit"`
}

// ContradictionFinding is the oracle's verdict on one existing claim.
// ExistingClaim must echo a stored belief's claim text verbatim to be
// actionable; paraphrased matches are dropped.
type ContradictionFinding struct {
	ExistingClaim string  `json:"existing_claim"`
	Explanation   string  `json:"explanation"`
	Severity      float64 `json:"severity"`
}

// MemoryEntry is one embedded record of a past dialogue turn, keyed by the
// message that produced it.
type MemoryEntry struct {
	MessageID uuid.UUID `json:"message_id"`
	UserID    uuid.UUID `json:"user_id"`
	SessionID uuid.UUID `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// MemoryResult is a recalled memory projection with its similarity score.
type MemoryResult struct {
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	Score     float32   `json:"score"`
}

// ConsciousnessState is one snapshot of the four derived metrics.
// All four scalars are clamped to [0,1] at computation time.
type ConsciousnessState struct {
	UserID                 uuid.UUID `json:"user_id"`
	SessionID              uuid.UUID `json:"session_id"`
	EpistemicHumility      float64   `json:"epistemic_humility"`
	BeliefVolatility       float64   `json:"belief_volatility"`
	ContradictionAwareness float64   `json:"contradiction_awareness"`
	DepthOfInquiry         float64   `json:"depth_of_inquiry"`
	Timestamp              time.Time `json:"timestamp"`
}

// ChatMessage is one turn handed to the reasoning oracle.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
