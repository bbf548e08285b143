package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riverlabs/nexus/internal/domain"
)

// BeliefService owns the belief graph: claim storage, contradiction edges,
// and the oracle-delegated extraction and detection judgments.
type BeliefService struct {
	store  domain.BeliefStore
	oracle domain.OracleClient
	logger *zap.Logger
}

func NewBeliefService(store domain.BeliefStore, oracle domain.OracleClient, logger *zap.Logger) *BeliefService {
	return &BeliefService{store: store, oracle: oracle, logger: logger}
}

// Store persists one extracted claim as a belief node. Duplicate claims
// create duplicate nodes.
func (s *BeliefService) Store(ctx context.Context, userID uuid.UUID, claim domain.ExtractedClaim, sourceMessageID uuid.UUID) (*domain.Belief, error) {
	b := &domain.Belief{
		UserID:          userID,
		Claim:           claim.Claim,
		Confidence:      claim.Confidence,
		SourceMessageID: sourceMessageID,
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// List returns the user's beliefs, newest first.
func (s *BeliefService) List(ctx context.Context, userID uuid.UUID) ([]domain.Belief, error) {
	return s.store.ListByUser(ctx, userID)
}

// LinkContradiction records a CONTRADICTS edge between two persisted beliefs.
func (s *BeliefService) LinkContradiction(ctx context.Context, beliefAID, beliefBID uuid.UUID, explanation string, severity float64) error {
	return s.store.LinkContradiction(ctx, beliefAID, beliefBID, explanation, severity)
}

// ExtractClaims asks the oracle for discrete belief claims in the message.
// Oracle failure of any kind degrades to no claims.
func (s *BeliefService) ExtractClaims(ctx context.Context, message string) []domain.ExtractedClaim {
	claims, err := s.oracle.ExtractClaims(ctx, message)
	if err != nil {
		s.logger.Warn("belief extraction failed, continuing without claims", zap.Error(err))
		return nil
	}
	return claims
}

// DetectContradictions checks a new claim against the user's current beliefs.
func (s *BeliefService) DetectContradictions(ctx context.Context, userID uuid.UUID, newClaim string) []domain.Contradiction {
	existing, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to list beliefs for contradiction check", zap.Error(err))
		return nil
	}
	return s.DetectAgainst(ctx, existing, newClaim)
}

// DetectAgainst checks a new claim against a fixed belief snapshot, so a
// multi-claim turn evaluates every claim against the same pre-turn state.
// The oracle names contradicted claims by text; a finding whose text does not
// literally match a stored belief is dropped.
func (s *BeliefService) DetectAgainst(ctx context.Context, existing []domain.Belief, newClaim string) []domain.Contradiction {
	if len(existing) == 0 {
		return nil
	}

	claims := make([]string, len(existing))
	for i, b := range existing {
		claims[i] = b.Claim
	}

	findings, err := s.oracle.MatchContradictions(ctx, newClaim, claims)
	if err != nil {
		s.logger.Warn("contradiction detection failed, continuing without", zap.Error(err))
		return nil
	}

	var contras []domain.Contradiction
	for _, f := range findings {
		matched := false
		for _, b := range existing {
			if b.Claim == f.ExistingClaim {
				contras = append(contras, domain.Contradiction{
					BeliefA:     b,
					BeliefB:     domain.Belief{UserID: b.UserID, Claim: newClaim},
					Explanation: f.Explanation,
					Severity:    f.Severity,
				})
				matched = true
				break
			}
		}
		if !matched {
			s.logger.Debug("dropping contradiction with unmatched claim text",
				zap.String("existing_claim", f.ExistingClaim))
		}
	}
	return contras
}
