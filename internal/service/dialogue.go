package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/riverlabs/nexus/internal/domain"
)

// ErrUnknownMode is returned for a turn with an unrecognized chat mode.
var ErrUnknownMode = errors.New("unknown chat mode")

// recallLimit bounds how many past memories a turn pulls into context.
const recallLimit = 5

// analysisPlaceholder is the fixed assistant reply for analysis-only turns.
const analysisPlaceholder = "Analysis complete."

const conversationSystem = `You are a Socratic dialogue partner focused on epistemic exploration. Your role is NOT to provide answers but to ask questions that help the user examine their own beliefs, assumptions, and reasoning.

Guidelines:
- Ask ONE focused question at a time
- Target the user's actual epistemic gaps — what they haven't considered, not what they already know
- When contradictions are detected, gently surface them without judgment
- Reference past conversations when relevant to show continuity of thought
- Never lecture or give opinions — only ask questions
- Be genuinely curious, not rhetorical
- If the user makes a universal claim, probe the boundaries
- If the user uses loaded language, ask them to define their terms`

const integratedSystem = `You are an integrated epistemic dialogue partner that combines Socratic questioning with critical discourse analysis. You have performed a deep analysis of the user's statement and discovered specific linguistic patterns and hidden assumptions.

DISCOURSE ANALYSIS INSIGHTS:
%s
%s
%s

Your task:
1. Use the discourse analysis to identify the most significant epistemic gap in the user's statement
2. Ask ONE precise Socratic question that helps the user examine their own framing
3. Reference specific findings (e.g., "You used the word 'always' — what exceptions might exist?")
4. Do NOT lecture about discourse analysis — use the insights to ask better questions
5. Be genuinely curious and non-judgmental
6. If contradictions were found, gently surface the most significant one

The question should be something the user has NOT considered, directly informed by the analysis.`

// Engine is the per-turn orchestrator over the belief, episodic,
// consciousness, and perspective services. Every turn is read-before-write:
// recall, extraction, and contradiction detection observe the state from
// before this turn's writes.
type Engine struct {
	beliefs       *BeliefService
	episodic      *EpisodicService
	consciousness *ConsciousnessService
	perspective   *PerspectiveService
	oracle        domain.OracleClient
	logger        *zap.Logger
}

func NewEngine(
	beliefs *BeliefService,
	episodic *EpisodicService,
	consciousness *ConsciousnessService,
	perspective *PerspectiveService,
	oracle domain.OracleClient,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		beliefs:       beliefs,
		episodic:      episodic,
		consciousness: consciousness,
		perspective:   perspective,
		oracle:        oracle,
		logger:        logger,
	}
}

// ProcessTurn runs one dialogue turn. messageID identifies the incoming user
// message and keys its memory entry. The analysis result is non-nil only for
// analysis and integrated modes. Only the reply-producing oracle call is
// fatal; every other sub-operation degrades and the turn proceeds.
func (e *Engine) ProcessTurn(ctx context.Context, mode domain.ChatMode, userID, sessionID, messageID uuid.UUID, text string) (string, *domain.AnalysisResult, error) {
	switch mode {
	case domain.ModeConversation:
		reply, err := e.processConversation(ctx, userID, sessionID, messageID, text)
		return reply, nil, err
	case domain.ModeAnalysis:
		return analysisPlaceholder, e.perspective.Analyze(ctx, text), nil
	case domain.ModeIntegrated:
		return e.processIntegrated(ctx, userID, sessionID, messageID, text)
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// ListBeliefs returns the user's beliefs, newest first.
func (e *Engine) ListBeliefs(ctx context.Context, userID uuid.UUID) ([]domain.Belief, error) {
	return e.beliefs.List(ctx, userID)
}

// CurrentState returns the user's consciousness snapshot.
func (e *Engine) CurrentState(ctx context.Context, userID uuid.UUID) *domain.ConsciousnessState {
	return e.consciousness.CurrentState(ctx, userID)
}

// AnalyzeOnly runs the four-layer analysis without any dialogue state.
func (e *Engine) AnalyzeOnly(ctx context.Context, text string) *domain.AnalysisResult {
	return e.perspective.Analyze(ctx, text)
}

func (e *Engine) processConversation(ctx context.Context, userID, sessionID, messageID uuid.UUID, text string) (string, error) {
	snapshot := e.listOrEmpty(ctx, userID)

	var (
		memories  []domain.MemoryResult
		extracted []domain.ExtractedClaim
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := e.episodic.Recall(gctx, userID, text, recallLimit)
		if err != nil {
			e.logger.Warn("memory recall failed, continuing without memories", zap.Error(err))
			return nil
		}
		memories = m
		return nil
	})
	g.Go(func() error {
		extracted = e.beliefs.ExtractClaims(gctx, text)
		return nil
	})
	_ = g.Wait()

	var contradictions []domain.Contradiction
	for _, claim := range extracted {
		contradictions = append(contradictions, e.beliefs.DetectAgainst(ctx, snapshot, claim.Claim)...)
	}

	var stored []domain.Belief
	for _, claim := range extracted {
		b, err := e.beliefs.Store(ctx, userID, claim, messageID)
		if err != nil {
			e.logger.Warn("failed to store belief",
				zap.String("claim", claim.Claim), zap.Error(err))
			continue
		}
		stored = append(stored, *b)
	}

	for _, contra := range contradictions {
		for _, b := range stored {
			if b.Claim == contra.BeliefB.Claim {
				if err := e.beliefs.LinkContradiction(ctx, contra.BeliefA.ID, b.ID, contra.Explanation, contra.Severity); err != nil {
					e.logger.Warn("failed to link contradiction", zap.Error(err))
				}
				break
			}
		}
	}

	if err := e.episodic.Store(ctx, userID, sessionID, messageID, text, "user"); err != nil {
		e.logger.Warn("failed to store user memory", zap.Error(err))
	}

	current := append(stored, snapshot...)

	systemPrompt := conversationSystem +
		memorySummary(memories) +
		beliefSummary(current) +
		contradictionSummary(contradictions)

	reply, err := e.oracle.Chat(ctx, []domain.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: text},
	})
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}

	if err := e.episodic.Store(ctx, userID, sessionID, uuid.New(), reply, "assistant"); err != nil {
		e.logger.Warn("failed to store assistant memory", zap.Error(err))
	}

	e.consciousness.Record(ctx, userID, sessionID, len(snapshot)+len(stored), len(contradictions), 1, 0)

	return reply, nil
}

func (e *Engine) processIntegrated(ctx context.Context, userID, sessionID, messageID uuid.UUID, text string) (string, *domain.AnalysisResult, error) {
	snapshot := e.listOrEmpty(ctx, userID)

	var (
		analysis  *domain.AnalysisResult
		memories  []domain.MemoryResult
		extracted []domain.ExtractedClaim
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		analysis = e.perspective.Analyze(gctx, text)
		return nil
	})
	g.Go(func() error {
		m, err := e.episodic.Recall(gctx, userID, text, recallLimit)
		if err != nil {
			e.logger.Warn("memory recall failed, continuing without memories", zap.Error(err))
			return nil
		}
		memories = m
		return nil
	})
	g.Go(func() error {
		extracted = e.beliefs.ExtractClaims(gctx, text)
		return nil
	})
	_ = g.Wait()

	var contradictions []domain.Contradiction
	for _, claim := range extracted {
		contradictions = append(contradictions, e.beliefs.DetectAgainst(ctx, snapshot, claim.Claim)...)
	}

	for _, claim := range extracted {
		if _, err := e.beliefs.Store(ctx, userID, claim, messageID); err != nil {
			e.logger.Warn("failed to store belief",
				zap.String("claim", claim.Claim), zap.Error(err))
		}
	}

	if err := e.episodic.Store(ctx, userID, sessionID, messageID, text, "user"); err != nil {
		e.logger.Warn("failed to store user memory", zap.Error(err))
	}

	systemPrompt := fmt.Sprintf(integratedSystem,
		analysisDigest(analysis),
		memorySummary(memories),
		contradictionDigest(contradictions),
	)

	reply, err := e.oracle.Chat(ctx, []domain.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: text},
	})
	if err != nil {
		return "", nil, fmt.Errorf("generate integrated reply: %w", err)
	}

	if err := e.episodic.Store(ctx, userID, sessionID, uuid.New(), reply, "assistant"); err != nil {
		e.logger.Warn("failed to store assistant memory", zap.Error(err))
	}

	current := e.listOrEmpty(ctx, userID)
	e.consciousness.Record(ctx, userID, sessionID, len(current), len(contradictions), 1, 0)

	return reply, analysis, nil
}

func (e *Engine) listOrEmpty(ctx context.Context, userID uuid.UUID) []domain.Belief {
	beliefs, err := e.beliefs.List(ctx, userID)
	if err != nil {
		e.logger.Warn("failed to list beliefs, continuing with none", zap.Error(err))
		return nil
	}
	return beliefs
}

func memorySummary(memories []domain.MemoryResult) string {
	if len(memories) == 0 {
		return ""
	}
	lines := make([]string, len(memories))
	for i, m := range memories {
		lines[i] = fmt.Sprintf("[%s] %s: %s", m.Timestamp.Format("2006-01-02 15:04"), m.Role, m.Content)
	}
	return "\n\nRelevant past conversations:\n" + strings.Join(lines, "\n")
}

func beliefSummary(beliefs []domain.Belief) string {
	if len(beliefs) == 0 {
		return ""
	}
	if len(beliefs) > 20 {
		beliefs = beliefs[:20]
	}
	lines := make([]string, len(beliefs))
	for i, b := range beliefs {
		lines[i] = fmt.Sprintf("- %q (confidence: %.1f)", b.Claim, b.Confidence)
	}
	return "\n\nUser's current belief network:\n" + strings.Join(lines, "\n")
}

func contradictionSummary(contradictions []domain.Contradiction) string {
	if len(contradictions) == 0 {
		return ""
	}
	lines := make([]string, len(contradictions))
	for i, c := range contradictions {
		lines[i] = fmt.Sprintf("- Current: %q contradicts previous: %q (%s)",
			c.BeliefB.Claim, c.BeliefA.Claim, c.Explanation)
	}
	return "\n\nContradictions detected:\n" + strings.Join(lines, "\n")
}

// contradictionDigest is the integrated-mode rendering: the analysis prompt
// already frames the turn, so the lines drop the Current/previous labels.
func contradictionDigest(contradictions []domain.Contradiction) string {
	if len(contradictions) == 0 {
		return ""
	}
	lines := make([]string, len(contradictions))
	for i, c := range contradictions {
		lines[i] = fmt.Sprintf("- %q contradicts %q (%s)",
			c.BeliefB.Claim, c.BeliefA.Claim, c.Explanation)
	}
	return "\n\nContradictions detected:\n" + strings.Join(lines, "\n")
}

// analysisDigest summarizes the most salient analysis findings for the
// integrated prompt. Each section appears only when its list is non-empty.
func analysisDigest(a *domain.AnalysisResult) string {
	var parts []string

	if len(a.Syntactic.Nominalisations) > 0 {
		noms := make([]string, len(a.Syntactic.Nominalisations))
		for i, n := range a.Syntactic.Nominalisations {
			noms[i] = fmt.Sprintf("%q (hides verb: %s)", n.Original, n.VerbForm)
		}
		parts = append(parts, "Nominalisations found: "+strings.Join(noms, ", "))
	}

	passiveCount := 0
	for _, v := range a.Syntactic.VoiceAnalysis {
		if v.Voice == domain.VoicePassive {
			passiveCount++
		}
	}
	if passiveCount > 0 {
		parts = append(parts, fmt.Sprintf("Passive voice used %d time(s) — agency is obscured", passiveCount))
	}

	if len(a.Semantic.Presuppositions) > 0 {
		presups := make([]string, len(a.Semantic.Presuppositions))
		for i, p := range a.Semantic.Presuppositions {
			presups[i] = fmt.Sprintf("%q presupposes: %s", p.Trigger, p.PresupposedContent)
		}
		parts = append(parts, "Presuppositions: "+strings.Join(presups, "; "))
	}

	if len(a.Semantic.PowerHierarchies) > 0 {
		powers := make([]string, len(a.Semantic.PowerHierarchies))
		for i, p := range a.Semantic.PowerHierarchies {
			powers[i] = fmt.Sprintf("%s > %s", p.Dominant, p.Subordinate)
		}
		parts = append(parts, "Power hierarchies implied: "+strings.Join(powers, ", "))
	}

	if len(a.Discourse.Framing) > 0 {
		frames := make([]string, len(a.Discourse.Framing))
		for i, f := range a.Discourse.Framing {
			frames[i] = fmt.Sprintf("%s: %s", f.FrameName, f.Effect)
		}
		parts = append(parts, "Framing patterns: "+strings.Join(frames, "; "))
	}

	if len(a.Discourse.StrategicOmissions) > 0 {
		omissions := make([]string, len(a.Discourse.StrategicOmissions))
		for i, o := range a.Discourse.StrategicOmissions {
			omissions[i] = o.WhatIsMissing
		}
		parts = append(parts, "Strategic omissions: "+strings.Join(omissions, "; "))
	}

	if len(a.CriticalSynthesis.NaturalisedClaims) > 0 {
		claims := make([]string, len(a.CriticalSynthesis.NaturalisedClaims))
		for i, c := range a.CriticalSynthesis.NaturalisedClaims {
			claims[i] = fmt.Sprintf("%q", c.Claim)
		}
		parts = append(parts, "Claims presented as natural/obvious: "+strings.Join(claims, ", "))
	}

	if len(a.CriticalSynthesis.AlternativeFramings) > 0 {
		alts := make([]string, len(a.CriticalSynthesis.AlternativeFramings))
		for i, f := range a.CriticalSynthesis.AlternativeFramings {
			alts[i] = f.Alternative
		}
		parts = append(parts, "Alternative framings possible: "+strings.Join(alts, "; "))
	}

	if len(parts) == 0 {
		return "No significant discourse patterns detected."
	}
	return strings.Join(parts, "\n")
}
