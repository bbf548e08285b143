package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/riverlabs/nexus/internal/domain"
	"github.com/riverlabs/nexus/internal/oracle"
)

func TestPerspectiveService_Analyze_ComputesOnceWithinTTL(t *testing.T) {
	mock := &oracle.MockClient{
		Semantic: &domain.SemanticAnalysis{
			Presuppositions: []domain.Presupposition{{Trigger: "still", PresupposedContent: "it happened before"}},
		},
	}
	cache := newFakeAnalysisCache()
	store := &mockAnalysisStore{}
	svc := NewPerspectiveService(mock, cache, store, testLogger())
	ctx := context.Background()

	text := "The decision was made without consultation."

	first := svc.Analyze(ctx, text)
	second := svc.Analyze(ctx, text)

	if first == nil || second == nil {
		t.Fatal("expected analysis results")
	}
	if first.ID != second.ID {
		t.Fatal("expected second call to return the cached result")
	}
	if mock.SemanticCalls != 1 || mock.DiscourseCalls != 1 || mock.SynthesisCalls != 1 || mock.SyntacticCalls != 1 {
		t.Fatalf("expected each layer computed once, got syntactic=%d semantic=%d discourse=%d synthesis=%d",
			mock.SyntacticCalls, mock.SemanticCalls, mock.DiscourseCalls, mock.SynthesisCalls)
	}
	if cache.hits != 1 {
		t.Fatalf("expected 1 cache hit, got %d", cache.hits)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected 1 persisted analysis, got %d", len(store.created))
	}
}

func TestPerspectiveService_Analyze_LayerFailureDegradesToEmpty(t *testing.T) {
	mock := &oracle.MockClient{
		SemanticErr:  errors.New("oracle timeout"),
		DiscourseErr: errors.New("oracle timeout"),
		Synthesis: &domain.CriticalSynthesis{
			NaturalisedClaims: []domain.NaturalisedClaim{{Claim: "markets are efficient"}},
		},
	}
	svc := NewPerspectiveService(mock, newFakeAnalysisCache(), &mockAnalysisStore{}, testLogger())

	result := svc.Analyze(context.Background(), "Markets are efficient.")
	if result == nil {
		t.Fatal("expected a result even with failing layers")
	}
	if len(result.Semantic.Presuppositions) != 0 {
		t.Fatal("expected failed semantic layer to be empty")
	}
	if len(result.CriticalSynthesis.NaturalisedClaims) != 1 {
		t.Fatal("expected surviving synthesis layer to carry its findings")
	}
}

func TestPerspectiveService_Analyze_PersistFailureIsSoft(t *testing.T) {
	svc := NewPerspectiveService(&oracle.MockClient{}, newFakeAnalysisCache(), &mockAnalysisStore{createErr: errors.New("db down")}, testLogger())

	if result := svc.Analyze(context.Background(), "some text"); result == nil {
		t.Fatal("expected analysis despite persistence failure")
	}
}

func TestDetectVoice(t *testing.T) {
	instances := detectVoice("The window was shattered. The cat shattered the window.")
	if len(instances) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(instances))
	}
	if instances[0].Voice != domain.VoicePassive {
		t.Fatalf("expected first sentence passive, got %s", instances[0].Voice)
	}
	if instances[1].Voice != domain.VoiceActive {
		t.Fatalf("expected second sentence active, got %s", instances[1].Voice)
	}
}

func TestDetectNominalisations(t *testing.T) {
	results := detectNominalisations("The destruction of the village caused displacement.")

	var words []string
	for _, n := range results {
		words = append(words, n.Original)
	}
	joined := strings.Join(words, ",")
	if !strings.Contains(joined, "destruction") {
		t.Fatalf("expected 'destruction' detected, got %v", words)
	}
	if !strings.Contains(joined, "displacement") {
		t.Fatalf("expected 'displacement' detected, got %v", words)
	}
}

func TestDetectNominalisations_Exceptions(t *testing.T) {
	results := detectNominalisations("The government asked a question about the situation.")
	if len(results) != 0 {
		t.Fatalf("expected common-word exceptions to be skipped, got %v", results)
	}
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("First one. Second one! Third one?")
	if len(sentences) != 3 {
		t.Fatalf("expected 3 sentences, got %d: %v", len(sentences), sentences)
	}
	if sentences[1] != "Second one" {
		t.Fatalf("unexpected sentence split: %v", sentences)
	}
}

func TestAnalysisDigest_OnlyNonEmptySections(t *testing.T) {
	a := &domain.AnalysisResult{
		Syntactic: domain.SyntacticAnalysis{
			Nominalisations: []domain.Nominalisation{{Original: "destruction", VerbForm: "destroy"}},
			VoiceAnalysis: []domain.VoiceInstance{
				{Sentence: "It was done.", Voice: domain.VoicePassive},
				{Sentence: "We did it.", Voice: domain.VoiceActive},
			},
		},
		Semantic: domain.SemanticAnalysis{
			PowerHierarchies: []domain.PowerHierarchy{{Dominant: "experts", Subordinate: "public"}},
		},
	}

	digest := analysisDigest(a)

	if !strings.Contains(digest, "Nominalisations found") {
		t.Fatal("expected nominalisation section")
	}
	if !strings.Contains(digest, "Passive voice used 1 time(s)") {
		t.Fatalf("expected passive voice count of 1, got %q", digest)
	}
	if !strings.Contains(digest, "experts > public") {
		t.Fatal("expected power hierarchy section")
	}
	if strings.Contains(digest, "Presuppositions") {
		t.Fatal("did not expect empty presupposition section")
	}
	if strings.Contains(digest, "Framing patterns") {
		t.Fatal("did not expect empty framing section")
	}
}

func TestAnalysisDigest_Empty(t *testing.T) {
	digest := analysisDigest(&domain.AnalysisResult{})
	if digest != "No significant discourse patterns detected." {
		t.Fatalf("unexpected empty digest: %q", digest)
	}
}
