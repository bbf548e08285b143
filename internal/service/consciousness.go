package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riverlabs/nexus/internal/domain"
	"github.com/riverlabs/nexus/internal/store"
)

// stateWindow is how far back CurrentState looks for a snapshot.
const stateWindow = 24 * time.Hour

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ComputeMetrics derives the four consciousness scalars from raw counts.
// Pure function, no I/O. All outputs are clamped to [0,1].
func ComputeMetrics(beliefsCount, contradictionsCount, questionsAsked, beliefsRevised int) domain.ConsciousnessState {
	s := domain.ConsciousnessState{
		EpistemicHumility: 0.5,
		DepthOfInquiry:    clamp01(float64(questionsAsked) / 10),
	}
	if beliefsCount > 0 {
		s.EpistemicHumility = clamp01(float64(questionsAsked+beliefsRevised) / float64(beliefsCount))
		s.BeliefVolatility = clamp01(float64(beliefsRevised) / float64(beliefsCount))
	}
	if beliefsCount > 1 {
		s.ContradictionAwareness = clamp01(float64(contradictionsCount) / float64(beliefsCount-1))
	}
	return s
}

// ConsciousnessService wraps the pure calculator with best-effort persistence
// and trailing-window state lookup.
type ConsciousnessService struct {
	metrics domain.MetricsStore
	logger  *zap.Logger
}

func NewConsciousnessService(metrics domain.MetricsStore, logger *zap.Logger) *ConsciousnessService {
	return &ConsciousnessService{metrics: metrics, logger: logger}
}

// Record computes a snapshot, appends it to the metrics store, and returns it.
// Persistence failure is logged; the computed snapshot is returned regardless.
func (s *ConsciousnessService) Record(ctx context.Context, userID, sessionID uuid.UUID, beliefsCount, contradictionsCount, questionsAsked, beliefsRevised int) *domain.ConsciousnessState {
	snapshot := ComputeMetrics(beliefsCount, contradictionsCount, questionsAsked, beliefsRevised)
	snapshot.UserID = userID
	snapshot.SessionID = sessionID
	snapshot.Timestamp = time.Now().UTC()

	if err := s.metrics.Append(ctx, &snapshot); err != nil {
		s.logger.Warn("failed to append consciousness snapshot",
			zap.String("user_id", userID.String()), zap.Error(err))
	}
	return &snapshot
}

// CurrentState returns the user's most recent snapshot within the trailing
// window, or the neutral default when none exists or the lookup fails.
func (s *ConsciousnessService) CurrentState(ctx context.Context, userID uuid.UUID) *domain.ConsciousnessState {
	latest, err := s.metrics.Latest(ctx, userID, stateWindow)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to load consciousness state",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
		return &domain.ConsciousnessState{
			UserID:            userID,
			EpistemicHumility: 0.5,
			Timestamp:         time.Now().UTC(),
		}
	}
	return latest
}
