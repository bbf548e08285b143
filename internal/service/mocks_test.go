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

// mockBeliefStore implements domain.BeliefStore for testing.
type mockBeliefStore struct {
	beliefs   []domain.Belief
	links     []linkedEdge
	createErr error
	listErr   error
	linkErr   error
}

type linkedEdge struct {
	beliefAID   uuid.UUID
	beliefBID   uuid.UUID
	explanation string
	severity    float64
}

func newMockBeliefStore() *mockBeliefStore {
	return &mockBeliefStore{}
}

func (m *mockBeliefStore) Create(ctx context.Context, b *domain.Belief) error {
	if m.createErr != nil {
		return m.createErr
	}
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	// Newest first, matching the real store's ordering.
	m.beliefs = append([]domain.Belief{*b}, m.beliefs...)
	return nil
}

func (m *mockBeliefStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Belief, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.Belief
	for _, b := range m.beliefs {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBeliefStore) LinkContradiction(ctx context.Context, beliefAID, beliefBID uuid.UUID, explanation string, severity float64) error {
	if m.linkErr != nil {
		return m.linkErr
	}
	if !m.has(beliefAID) || !m.has(beliefBID) {
		return errors.New("contradiction endpoint not found")
	}
	m.links = append(m.links, linkedEdge{beliefAID, beliefBID, explanation, severity})
	return nil
}

func (m *mockBeliefStore) has(id uuid.UUID) bool {
	for _, b := range m.beliefs {
		if b.ID == id {
			return true
		}
	}
	return false
}

// mockMemoryIndex implements domain.MemoryIndex for testing.
type mockMemoryIndex struct {
	ensureDims    []int
	entries       map[uuid.UUID]domain.MemoryEntry
	searchResults []domain.MemoryResult
	upsertErr     error
	searchErr     error
}

func newMockMemoryIndex() *mockMemoryIndex {
	return &mockMemoryIndex{entries: make(map[uuid.UUID]domain.MemoryEntry)}
}

func (m *mockMemoryIndex) EnsureIndex(ctx context.Context, dim int) error {
	m.ensureDims = append(m.ensureDims, dim)
	return nil
}

func (m *mockMemoryIndex) Upsert(ctx context.Context, e *domain.MemoryEntry) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	e.CreatedAt = time.Now()
	m.entries[e.MessageID] = *e
	return nil
}

func (m *mockMemoryIndex) Search(ctx context.Context, userID uuid.UUID, embedding []float32, limit int) ([]domain.MemoryResult, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	results := m.searchResults
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// mockMetricsStore implements domain.MetricsStore for testing.
type mockMetricsStore struct {
	appended  []domain.ConsciousnessState
	latest    *domain.ConsciousnessState
	appendErr error
	latestErr error
}

func (m *mockMetricsStore) Append(ctx context.Context, s *domain.ConsciousnessState) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, *s)
	return nil
}

func (m *mockMetricsStore) Latest(ctx context.Context, userID uuid.UUID, window time.Duration) (*domain.ConsciousnessState, error) {
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	if m.latest == nil {
		return nil, store.ErrNotFound
	}
	return m.latest, nil
}

// fakeAnalysisCache is an in-memory domain.AnalysisCache.
type fakeAnalysisCache struct {
	values map[string]*domain.AnalysisResult
	hits   int
	puts   int
}

func newFakeAnalysisCache() *fakeAnalysisCache {
	return &fakeAnalysisCache{values: make(map[string]*domain.AnalysisResult)}
}

func (c *fakeAnalysisCache) Get(ctx context.Context, text string) (*domain.AnalysisResult, bool) {
	r, ok := c.values[text]
	if ok {
		c.hits++
	}
	return r, ok
}

func (c *fakeAnalysisCache) Put(ctx context.Context, text string, result *domain.AnalysisResult) {
	c.puts++
	c.values[text] = result
}

// mockAnalysisStore implements domain.AnalysisStore for testing.
type mockAnalysisStore struct {
	created   []*domain.AnalysisResult
	createErr error
}

func (m *mockAnalysisStore) Create(ctx context.Context, r *domain.AnalysisResult) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, r)
	return nil
}

func testLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}
