package oracle

import (
	"context"
	"sync"

	"github.com/riverlabs/nexus/internal/domain"
)

// MockClient is a configurable oracle for tests. Zero value returns empty
// results for every structured call and an empty reply for Chat.
type MockClient struct {
	mu sync.Mutex

	Claims       []domain.ExtractedClaim
	ClaimsErr    error
	Findings     []domain.ContradictionFinding
	FindingsErr  error
	Sentences    []domain.SentenceComplexity
	Processes    []domain.TransitivityInstance
	SyntacticErr error
	Semantic     *domain.SemanticAnalysis
	SemanticErr  error
	Discourse    *domain.DiscourseAnalysis
	DiscourseErr error
	Synthesis    *domain.CriticalSynthesis
	SynthesisErr error
	Reply        string
	ChatErr      error

	ExtractCalls   []string
	MatchCalls     []string
	SyntacticCalls int
	SemanticCalls  int
	DiscourseCalls int
	SynthesisCalls int
	ChatCalls      [][]domain.ChatMessage
}

var _ domain.OracleClient = (*MockClient)(nil)

func (m *MockClient) ExtractClaims(_ context.Context, message string) ([]domain.ExtractedClaim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExtractCalls = append(m.ExtractCalls, message)
	return m.Claims, m.ClaimsErr
}

func (m *MockClient) MatchContradictions(_ context.Context, newClaim string, _ []string) ([]domain.ContradictionFinding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchCalls = append(m.MatchCalls, newClaim)
	return m.Findings, m.FindingsErr
}

func (m *MockClient) AnalyzeSyntactic(_ context.Context, _ string) ([]domain.SentenceComplexity, []domain.TransitivityInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SyntacticCalls++
	return m.Sentences, m.Processes, m.SyntacticErr
}

func (m *MockClient) AnalyzeSemantic(_ context.Context, _ string) (*domain.SemanticAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SemanticCalls++
	if m.SemanticErr != nil {
		return nil, m.SemanticErr
	}
	if m.Semantic == nil {
		return &domain.SemanticAnalysis{}, nil
	}
	return m.Semantic, nil
}

func (m *MockClient) AnalyzeDiscourse(_ context.Context, _ string) (*domain.DiscourseAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DiscourseCalls++
	if m.DiscourseErr != nil {
		return nil, m.DiscourseErr
	}
	if m.Discourse == nil {
		return &domain.DiscourseAnalysis{}, nil
	}
	return m.Discourse, nil
}

func (m *MockClient) AnalyzeSynthesis(_ context.Context, _ string) (*domain.CriticalSynthesis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SynthesisCalls++
	if m.SynthesisErr != nil {
		return nil, m.SynthesisErr
	}
	if m.Synthesis == nil {
		return &domain.CriticalSynthesis{}, nil
	}
	return m.Synthesis, nil
}

func (m *MockClient) Chat(_ context.Context, messages []domain.ChatMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatCalls = append(m.ChatCalls, messages)
	return m.Reply, m.ChatErr
}
