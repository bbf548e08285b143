package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/riverlabs/nexus/internal/domain"
	"github.com/riverlabs/nexus/internal/oracle"
)

func setupBeliefTest(mock *oracle.MockClient) (*BeliefService, *mockBeliefStore) {
	if mock == nil {
		mock = &oracle.MockClient{}
	}
	beliefStore := newMockBeliefStore()
	return NewBeliefService(beliefStore, mock, testLogger()), beliefStore
}

func TestBeliefService_StoreAndList(t *testing.T) {
	svc, _ := setupBeliefTest(nil)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Store(ctx, userID, domain.ExtractedClaim{Claim: "Cats are smart", Confidence: 0.8}, uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.ID == uuid.Nil {
		t.Fatal("expected belief ID to be set")
	}

	second, err := svc.Store(ctx, userID, domain.ExtractedClaim{Claim: "Dogs are loyal", Confidence: 0.9}, uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	beliefs, err := svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(beliefs) != 2 {
		t.Fatalf("expected 2 beliefs, got %d", len(beliefs))
	}
	// Newest first.
	if beliefs[0].ID != second.ID {
		t.Fatalf("expected newest belief first, got %q", beliefs[0].Claim)
	}
	if beliefs[0].Confidence != 0.9 {
		t.Fatalf("expected confidence 0.9, got %f", beliefs[0].Confidence)
	}
}

func TestBeliefService_LinkContradiction_RequiresEndpoints(t *testing.T) {
	svc, _ := setupBeliefTest(nil)
	ctx := context.Background()
	userID := uuid.New()

	b, err := svc.Store(ctx, userID, domain.ExtractedClaim{Claim: "The earth is flat", Confidence: 0.9}, uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.LinkContradiction(ctx, b.ID, uuid.New(), "conflict", 0.8); err == nil {
		t.Fatal("expected error linking to a belief that was never stored")
	}
}

func TestBeliefService_ExtractClaims_DegradesToEmpty(t *testing.T) {
	mock := &oracle.MockClient{ClaimsErr: errors.New("oracle unreachable")}
	svc, _ := setupBeliefTest(mock)

	claims := svc.ExtractClaims(context.Background(), "Cats are always smarter than dogs.")
	if len(claims) != 0 {
		t.Fatalf("expected no claims on oracle failure, got %d", len(claims))
	}
}

func TestBeliefService_DetectContradictions_EmptyBeliefs(t *testing.T) {
	// Oracle primed with a finding that must never be consulted.
	mock := &oracle.MockClient{
		Findings: []domain.ContradictionFinding{{ExistingClaim: "anything", Severity: 1}},
	}
	svc, _ := setupBeliefTest(mock)

	contras := svc.DetectContradictions(context.Background(), uuid.New(), "The earth is round.")
	if len(contras) != 0 {
		t.Fatalf("expected empty result for user with no beliefs, got %d", len(contras))
	}
	if len(mock.MatchCalls) != 0 {
		t.Fatalf("expected no oracle call for user with no beliefs, got %d", len(mock.MatchCalls))
	}
}

func TestBeliefService_DetectContradictions_VerbatimMatch(t *testing.T) {
	mock := &oracle.MockClient{
		Findings: []domain.ContradictionFinding{{
			ExistingClaim: "The earth is flat",
			Explanation:   "shape cannot be both flat and round",
			Severity:      0.9,
		}},
	}
	svc, _ := setupBeliefTest(mock)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.Store(ctx, userID, domain.ExtractedClaim{Claim: "The earth is flat", Confidence: 0.9}, uuid.New()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	contras := svc.DetectContradictions(ctx, userID, "The earth is round.")
	if len(contras) != 1 {
		t.Fatalf("expected 1 contradiction, got %d", len(contras))
	}
	if contras[0].BeliefA.Claim != "The earth is flat" {
		t.Fatalf("expected belief_a to be the stored claim, got %q", contras[0].BeliefA.Claim)
	}
	if contras[0].BeliefB.Claim != "The earth is round." {
		t.Fatalf("expected belief_b to carry the new claim, got %q", contras[0].BeliefB.Claim)
	}
	if contras[0].Severity != 0.9 {
		t.Fatalf("expected severity 0.9, got %f", contras[0].Severity)
	}
}

func TestBeliefService_DetectContradictions_ParaphraseDropped(t *testing.T) {
	// The oracle paraphrased instead of echoing the stored text verbatim.
	mock := &oracle.MockClient{
		Findings: []domain.ContradictionFinding{{
			ExistingClaim: "Earth is flat",
			Explanation:   "conflicting shapes",
			Severity:      0.9,
		}},
	}
	svc, _ := setupBeliefTest(mock)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.Store(ctx, userID, domain.ExtractedClaim{Claim: "The earth is flat", Confidence: 0.9}, uuid.New()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	contras := svc.DetectContradictions(ctx, userID, "The earth is round.")
	if len(contras) != 0 {
		t.Fatalf("expected paraphrased finding to be dropped, got %d contradictions", len(contras))
	}
}

func TestBeliefService_DetectContradictions_OracleFailure(t *testing.T) {
	mock := &oracle.MockClient{FindingsErr: errors.New("timeout")}
	svc, _ := setupBeliefTest(mock)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.Store(ctx, userID, domain.ExtractedClaim{Claim: "The earth is flat", Confidence: 0.9}, uuid.New()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	contras := svc.DetectContradictions(ctx, userID, "The earth is round.")
	if len(contras) != 0 {
		t.Fatalf("expected empty result on oracle failure, got %d", len(contras))
	}
}

func TestBeliefService_DetectAgainst_UsesSnapshot(t *testing.T) {
	mock := &oracle.MockClient{
		Findings: []domain.ContradictionFinding{{ExistingClaim: "The earth is flat", Severity: 0.5}},
	}
	svc, _ := setupBeliefTest(mock)

	// A snapshot that includes a belief the store no longer needs to hold.
	snapshot := []domain.Belief{{ID: uuid.New(), UserID: uuid.New(), Claim: "The earth is flat"}}
	contras := svc.DetectAgainst(context.Background(), snapshot, "The earth is round.")
	if len(contras) != 1 {
		t.Fatalf("expected snapshot-based detection to resolve, got %d", len(contras))
	}
}
