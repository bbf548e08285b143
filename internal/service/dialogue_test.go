package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/riverlabs/nexus/internal/domain"
	"github.com/riverlabs/nexus/internal/embedding"
	"github.com/riverlabs/nexus/internal/oracle"
)

type engineFixture struct {
	engine        *Engine
	oracle        *oracle.MockClient
	beliefStore   *mockBeliefStore
	memoryIndex   *mockMemoryIndex
	metricsStore  *mockMetricsStore
	analysisCache *fakeAnalysisCache
}

func setupEngine(mock *oracle.MockClient) *engineFixture {
	if mock == nil {
		mock = &oracle.MockClient{Reply: "What makes you certain of that?"}
	}
	logger := testLogger()

	beliefStore := newMockBeliefStore()
	memoryIndex := newMockMemoryIndex()
	metricsStore := &mockMetricsStore{}
	analysisCache := newFakeAnalysisCache()

	beliefSvc := NewBeliefService(beliefStore, mock, logger)
	episodicSvc := NewEpisodicService(memoryIndex, &embedding.MockClient{Dim: 8}, logger)
	consciousnessSvc := NewConsciousnessService(metricsStore, logger)
	perspectiveSvc := NewPerspectiveService(mock, analysisCache, &mockAnalysisStore{}, logger)

	return &engineFixture{
		engine:        NewEngine(beliefSvc, episodicSvc, consciousnessSvc, perspectiveSvc, mock, logger),
		oracle:        mock,
		beliefStore:   beliefStore,
		memoryIndex:   memoryIndex,
		metricsStore:  metricsStore,
		analysisCache: analysisCache,
	}
}

func TestEngine_Conversation_FirstClaim(t *testing.T) {
	mock := &oracle.MockClient{
		Reply:  "What leads you to compare them at all?",
		Claims: []domain.ExtractedClaim{{Claim: "Cats are always smarter than dogs", Confidence: 0.7, IsExplicit: true}},
	}
	f := setupEngine(mock)
	ctx := context.Background()
	userID := uuid.New()

	reply, analysis, err := f.engine.ProcessTurn(ctx, domain.ModeConversation, userID, uuid.New(), uuid.New(), "Cats are always smarter than dogs.")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reply != mock.Reply {
		t.Fatalf("unexpected reply %q", reply)
	}
	if analysis != nil {
		t.Fatal("conversation mode must not return an analysis")
	}

	beliefs, _ := f.engine.ListBeliefs(ctx, userID)
	if len(beliefs) != 1 {
		t.Fatalf("expected exactly 1 stored belief, got %d", len(beliefs))
	}
	if beliefs[0].Claim != "Cats are always smarter than dogs" {
		t.Fatalf("unexpected stored claim %q", beliefs[0].Claim)
	}

	// No prior beliefs: the contradiction oracle must not have been consulted.
	if len(mock.MatchCalls) != 0 {
		t.Fatalf("expected no contradiction calls, got %d", len(mock.MatchCalls))
	}

	// User message and assistant reply both become memories.
	if len(f.memoryIndex.entries) != 2 {
		t.Fatalf("expected 2 memory entries, got %d", len(f.memoryIndex.entries))
	}

	// Metrics snapshot appended with the post-turn belief count.
	if len(f.metricsStore.appended) != 1 {
		t.Fatalf("expected 1 metrics snapshot, got %d", len(f.metricsStore.appended))
	}
	snapshot := f.metricsStore.appended[0]
	if snapshot.DepthOfInquiry != 0.1 {
		t.Fatalf("expected depth 0.1 for 1 question, got %f", snapshot.DepthOfInquiry)
	}
}

func TestEngine_Conversation_ContradictionLinked(t *testing.T) {
	mock := &oracle.MockClient{
		Reply:  "How do you reconcile those two views?",
		Claims: []domain.ExtractedClaim{{Claim: "The earth is round", Confidence: 0.95, IsExplicit: true}},
		Findings: []domain.ContradictionFinding{{
			ExistingClaim: "The earth is flat",
			Explanation:   "mutually exclusive shapes",
			Severity:      0.9,
		}},
	}
	f := setupEngine(mock)
	ctx := context.Background()
	userID := uuid.New()

	prior := &domain.Belief{UserID: userID, Claim: "The earth is flat", Confidence: 0.9}
	if err := f.beliefStore.Create(ctx, prior); err != nil {
		t.Fatalf("seed belief: %v", err)
	}

	reply, _, err := f.engine.ProcessTurn(ctx, domain.ModeConversation, userID, uuid.New(), uuid.New(), "The earth is round.")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reply == "" {
		t.Fatal("expected a reply")
	}

	if len(f.beliefStore.links) != 1 {
		t.Fatalf("expected 1 contradiction edge, got %d", len(f.beliefStore.links))
	}
	edge := f.beliefStore.links[0]
	if edge.beliefAID != prior.ID {
		t.Fatal("expected edge to start at the pre-existing belief")
	}
	if edge.explanation != "mutually exclusive shapes" {
		t.Fatalf("unexpected explanation %q", edge.explanation)
	}

	// The contradiction reaches the oracle's system context.
	if len(mock.ChatCalls) != 1 {
		t.Fatalf("expected 1 chat call, got %d", len(mock.ChatCalls))
	}
	system := mock.ChatCalls[0][0].Content
	if !strings.Contains(system, "Contradictions detected") {
		t.Fatal("expected contradiction summary in system context")
	}
	if !strings.Contains(system, "The earth is flat") {
		t.Fatal("expected contradicted claim in system context")
	}
}

func TestEngine_Conversation_ChatFailureIsFatal(t *testing.T) {
	mock := &oracle.MockClient{
		ChatErr: errors.New("oracle unreachable"),
		Claims:  []domain.ExtractedClaim{{Claim: "Something", Confidence: 0.5}},
	}
	f := setupEngine(mock)

	reply, _, err := f.engine.ProcessTurn(context.Background(), domain.ModeConversation, uuid.New(), uuid.New(), uuid.New(), "Something.")
	if err == nil {
		t.Fatal("expected turn to fail when the reply call fails")
	}
	if reply != "" {
		t.Fatalf("expected no partial reply, got %q", reply)
	}
	// Writes before the reply call may have committed; no metrics after failure.
	if len(f.metricsStore.appended) != 0 {
		t.Fatal("expected no metrics snapshot after a failed turn")
	}
}

func TestEngine_Conversation_SoftFailuresDegrade(t *testing.T) {
	mock := &oracle.MockClient{
		Reply:     "Tell me more.",
		ClaimsErr: errors.New("extraction down"),
	}
	f := setupEngine(mock)
	f.memoryIndex.searchErr = errors.New("vector store down")
	f.beliefStore.listErr = errors.New("graph store down")

	reply, _, err := f.engine.ProcessTurn(context.Background(), domain.ModeConversation, uuid.New(), uuid.New(), uuid.New(), "Hello.")
	if err != nil {
		t.Fatalf("expected soft failures to degrade, got %v", err)
	}
	if reply != "Tell me more." {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestEngine_AnalysisMode(t *testing.T) {
	mock := &oracle.MockClient{
		Semantic: &domain.SemanticAnalysis{
			Presuppositions: []domain.Presupposition{{Trigger: "again", PresupposedContent: "it happened before"}},
		},
	}
	f := setupEngine(mock)

	reply, analysis, err := f.engine.ProcessTurn(context.Background(), domain.ModeAnalysis, uuid.New(), uuid.New(), uuid.New(), "The policy failed again.")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reply != "Analysis complete." {
		t.Fatalf("expected placeholder reply, got %q", reply)
	}
	if analysis == nil {
		t.Fatal("expected an analysis result")
	}
	if len(analysis.Semantic.Presuppositions) != 1 {
		t.Fatal("expected semantic findings in the analysis")
	}

	// Analysis mode does no belief, memory, or metrics work.
	if len(f.memoryIndex.entries) != 0 {
		t.Fatal("expected no memory writes in analysis mode")
	}
	if len(f.metricsStore.appended) != 0 {
		t.Fatal("expected no metrics in analysis mode")
	}
	if len(mock.ChatCalls) != 0 {
		t.Fatal("expected no chat call in analysis mode")
	}
}

func TestEngine_IntegratedMode(t *testing.T) {
	mock := &oracle.MockClient{
		Reply:  "You said 'always' — what exceptions might exist?",
		Claims: []domain.ExtractedClaim{{Claim: "Regulation always stifles innovation", Confidence: 0.8, IsExplicit: true}},
		Synthesis: &domain.CriticalSynthesis{
			NaturalisedClaims: []domain.NaturalisedClaim{{Claim: "innovation is inherently good"}},
		},
	}
	f := setupEngine(mock)
	ctx := context.Background()
	userID := uuid.New()

	reply, analysis, err := f.engine.ProcessTurn(ctx, domain.ModeIntegrated, userID, uuid.New(), uuid.New(), "Regulation always stifles innovation.")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reply == "" {
		t.Fatal("expected a reply")
	}
	if analysis == nil {
		t.Fatal("expected integrated mode to return the analysis")
	}

	beliefs, _ := f.engine.ListBeliefs(ctx, userID)
	if len(beliefs) != 1 {
		t.Fatalf("expected 1 stored belief, got %d", len(beliefs))
	}

	// The digest surfaces the synthesis findings to the oracle.
	system := mock.ChatCalls[0][0].Content
	if !strings.Contains(system, "DISCOURSE ANALYSIS INSIGHTS") {
		t.Fatal("expected analysis insights header in system context")
	}
	if !strings.Contains(system, "innovation is inherently good") {
		t.Fatal("expected naturalised claim in the digest")
	}

	// Metrics reflect the post-turn belief count.
	if len(f.metricsStore.appended) != 1 {
		t.Fatalf("expected 1 metrics snapshot, got %d", len(f.metricsStore.appended))
	}

	// User message and reply are memories.
	if len(f.memoryIndex.entries) != 2 {
		t.Fatalf("expected 2 memory entries, got %d", len(f.memoryIndex.entries))
	}
}

func TestEngine_IntegratedMode_ContradictionWording(t *testing.T) {
	mock := &oracle.MockClient{
		Reply:  "Which of those two views do you hold now?",
		Claims: []domain.ExtractedClaim{{Claim: "The earth is round", Confidence: 0.95, IsExplicit: true}},
		Findings: []domain.ContradictionFinding{{
			ExistingClaim: "The earth is flat",
			Explanation:   "mutually exclusive shapes",
			Severity:      0.9,
		}},
	}
	f := setupEngine(mock)
	ctx := context.Background()
	userID := uuid.New()

	prior := &domain.Belief{UserID: userID, Claim: "The earth is flat", Confidence: 0.9}
	if err := f.beliefStore.Create(ctx, prior); err != nil {
		t.Fatalf("seed belief: %v", err)
	}

	if _, _, err := f.engine.ProcessTurn(ctx, domain.ModeIntegrated, userID, uuid.New(), uuid.New(), "The earth is round."); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	system := mock.ChatCalls[0][0].Content
	want := `- "The earth is round" contradicts "The earth is flat" (mutually exclusive shapes)`
	if !strings.Contains(system, want) {
		t.Fatalf("expected contradiction line %q in system context, got:\n%s", want, system)
	}
	if strings.Contains(system, "Current:") {
		t.Fatal("integrated mode must not use the conversation-mode line labels")
	}

	// Integrated mode reports contradictions in context but never links edges.
	if len(f.beliefStore.links) != 0 {
		t.Fatalf("expected no contradiction edges, got %d", len(f.beliefStore.links))
	}
}

func TestEngine_IntegratedMode_ChatFailureIsFatal(t *testing.T) {
	mock := &oracle.MockClient{ChatErr: errors.New("oracle down")}
	f := setupEngine(mock)

	_, analysis, err := f.engine.ProcessTurn(context.Background(), domain.ModeIntegrated, uuid.New(), uuid.New(), uuid.New(), "text")
	if err == nil {
		t.Fatal("expected integrated turn to fail when the reply call fails")
	}
	if analysis != nil {
		t.Fatal("expected no analysis returned from a failed turn")
	}
}

func TestEngine_UnknownMode(t *testing.T) {
	f := setupEngine(nil)

	_, _, err := f.engine.ProcessTurn(context.Background(), domain.ChatMode("debate"), uuid.New(), uuid.New(), uuid.New(), "text")
	if !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestEngine_CurrentState_DefaultForNewUser(t *testing.T) {
	f := setupEngine(nil)

	state := f.engine.CurrentState(context.Background(), uuid.New())
	if state == nil {
		t.Fatal("expected a state")
	}
	if state.EpistemicHumility != 0.5 {
		t.Fatalf("expected default humility 0.5, got %f", state.EpistemicHumility)
	}
}
