package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/riverlabs/nexus/internal/domain"
)

// PerspectiveService runs the four-layer discourse analysis. Results are
// memoized by content hash; every layer degrades to empty findings on oracle
// failure, so Analyze always returns a result.
type PerspectiveService struct {
	oracle domain.OracleClient
	cache  domain.AnalysisCache
	store  domain.AnalysisStore
	logger *zap.Logger
}

func NewPerspectiveService(oracle domain.OracleClient, cache domain.AnalysisCache, store domain.AnalysisStore, logger *zap.Logger) *PerspectiveService {
	return &PerspectiveService{oracle: oracle, cache: cache, store: store, logger: logger}
}

// Analyze returns the cached analysis for text if present, otherwise runs all
// four layers concurrently, caches the assembled result, and persists it
// best-effort.
func (s *PerspectiveService) Analyze(ctx context.Context, text string) *domain.AnalysisResult {
	if cached, ok := s.cache.Get(ctx, text); ok {
		return cached
	}

	var (
		syntactic domain.SyntacticAnalysis
		semantic  domain.SemanticAnalysis
		discourse domain.DiscourseAnalysis
		synthesis domain.CriticalSynthesis
	)

	// Each branch swallows its own failure, so the join always collects all
	// four layers.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		syntactic.VoiceAnalysis = detectVoice(text)
		syntactic.Nominalisations = detectNominalisations(text)
		sentences, processes, err := s.oracle.AnalyzeSyntactic(gctx, text)
		if err != nil {
			s.logger.Warn("syntactic layer degraded to empty", zap.Error(err))
			return nil
		}
		syntactic.SentenceComplexity = sentences
		syntactic.Transitivity = processes
		return nil
	})

	g.Go(func() error {
		result, err := s.oracle.AnalyzeSemantic(gctx, text)
		if err != nil {
			s.logger.Warn("semantic layer degraded to empty", zap.Error(err))
			return nil
		}
		semantic = *result
		return nil
	})

	g.Go(func() error {
		result, err := s.oracle.AnalyzeDiscourse(gctx, text)
		if err != nil {
			s.logger.Warn("discourse layer degraded to empty", zap.Error(err))
			return nil
		}
		discourse = *result
		return nil
	})

	g.Go(func() error {
		result, err := s.oracle.AnalyzeSynthesis(gctx, text)
		if err != nil {
			s.logger.Warn("synthesis layer degraded to empty", zap.Error(err))
			return nil
		}
		synthesis = *result
		return nil
	})

	_ = g.Wait()

	result := &domain.AnalysisResult{
		ID:                uuid.New(),
		InputText:         text,
		Syntactic:         syntactic,
		Semantic:          semantic,
		Discourse:         discourse,
		CriticalSynthesis: synthesis,
		CreatedAt:         time.Now().UTC(),
	}

	s.cache.Put(ctx, text, result)

	if err := s.store.Create(ctx, result); err != nil {
		s.logger.Warn("failed to persist analysis", zap.Error(err))
	}

	return result
}
