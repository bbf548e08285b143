package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/riverlabs/nexus/internal/domain"
)

// Generation can take minutes on local models, so the HTTP client carries a
// long timeout. Callers bound individual calls further via ctx.
const requestTimeout = 5 * time.Minute

// OllamaClient talks to the Ollama HTTP API and implements
// domain.OracleClient. Outbound calls share a rate limiter so a burst of
// concurrent turns cannot flood the model server.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewOllamaClient(baseURL, model string, rps float64) *OllamaClient {
	if rps <= 0 {
		rps = 5
	}
	return &OllamaClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type generateOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	System  string           `json:"system,omitempty"`
	Stream  bool             `json:"stream"`
	Format  string           `json:"format,omitempty"`
	Options *generateOptions `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type chatRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
	Options  *generateOptions     `json:"options,omitempty"`
}

type chatResponse struct {
	Message domain.ChatMessage `json:"message"`
}

func (c *OllamaClient) post(ctx context.Context, path string, reqBody, respBody any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("oracle rate limit: %w", err)
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal oracle request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create oracle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("oracle request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read oracle response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("oracle returned status %d: %s", resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, respBody); err != nil {
		return fmt.Errorf("unmarshal oracle response: %w", err)
	}
	return nil
}

// generateJSON runs one completion in JSON mode and parses the model output
// into out. A parse failure is an error; callers fail closed to empty.
func (c *OllamaClient) generateJSON(ctx context.Context, prompt, system string, out any) error {
	var resp generateResponse
	err := c.post(ctx, "/api/generate", generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		System:  system,
		Stream:  false,
		Format:  "json",
		Options: &generateOptions{Temperature: 0.3, NumPredict: 4096},
	}, &resp)
	if err != nil {
		return err
	}

	// Strip markdown fences if the model added them despite JSON mode
	raw := strings.TrimSpace(resp.Response)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("parse oracle JSON output: %w (raw: %s)", err, raw)
	}
	return nil
}

func (c *OllamaClient) ExtractClaims(ctx context.Context, message string) ([]domain.ExtractedClaim, error) {
	var resp struct {
		Claims []domain.ExtractedClaim `json:"claims"`
	}
	prompt := fmt.Sprintf(extractClaimsPrompt, message)
	if err := c.generateJSON(ctx, prompt, extractClaimsSystem, &resp); err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}
	return resp.Claims, nil
}

func (c *OllamaClient) MatchContradictions(ctx context.Context, newClaim string, existingClaims []string) ([]domain.ContradictionFinding, error) {
	existingJSON, err := json.Marshal(existingClaims)
	if err != nil {
		return nil, fmt.Errorf("marshal existing claims: %w", err)
	}

	var resp struct {
		Contradictions []domain.ContradictionFinding `json:"contradictions"`
	}
	prompt := fmt.Sprintf(matchContradictionsPrompt, newClaim, existingJSON)
	if err := c.generateJSON(ctx, prompt, matchContradictionsSystem, &resp); err != nil {
		return nil, fmt.Errorf("match contradictions: %w", err)
	}
	return resp.Contradictions, nil
}

func (c *OllamaClient) AnalyzeSyntactic(ctx context.Context, text string) ([]domain.SentenceComplexity, []domain.TransitivityInstance, error) {
	var resp struct {
		Sentences []domain.SentenceComplexity   `json:"sentences"`
		Processes []domain.TransitivityInstance `json:"processes"`
	}
	if err := c.generateJSON(ctx, text, syntacticSystem, &resp); err != nil {
		return nil, nil, fmt.Errorf("syntactic analysis: %w", err)
	}
	return resp.Sentences, resp.Processes, nil
}

func (c *OllamaClient) AnalyzeSemantic(ctx context.Context, text string) (*domain.SemanticAnalysis, error) {
	var resp struct {
		Presuppositions []domain.Presupposition `json:"presuppositions"`
		Implicatures    []domain.Implicature    `json:"implicatures"`
		Hierarchies     []domain.PowerHierarchy `json:"hierarchies"`
		Fields          []domain.LexicalField   `json:"fields"`
	}
	if err := c.generateJSON(ctx, text, semanticSystem, &resp); err != nil {
		return nil, fmt.Errorf("semantic analysis: %w", err)
	}
	return &domain.SemanticAnalysis{
		Presuppositions:  resp.Presuppositions,
		Implicatures:     resp.Implicatures,
		PowerHierarchies: resp.Hierarchies,
		LexicalFields:    resp.Fields,
	}, nil
}

func (c *OllamaClient) AnalyzeDiscourse(ctx context.Context, text string) (*domain.DiscourseAnalysis, error) {
	var resp struct {
		Frames       []domain.FramingInstance       `json:"frames"`
		Omissions    []domain.StrategicOmission     `json:"omissions"`
		Collocations []domain.CollocationPattern    `json:"collocations"`
		Markers      []domain.IntertextualityMarker `json:"markers"`
	}
	if err := c.generateJSON(ctx, text, discourseSystem, &resp); err != nil {
		return nil, fmt.Errorf("discourse analysis: %w", err)
	}
	return &domain.DiscourseAnalysis{
		Framing:            resp.Frames,
		StrategicOmissions: resp.Omissions,
		Collocations:       resp.Collocations,
		Intertextuality:    resp.Markers,
	}, nil
}

func (c *OllamaClient) AnalyzeSynthesis(ctx context.Context, text string) (*domain.CriticalSynthesis, error) {
	var resp struct {
		Claims        []domain.NaturalisedClaim    `json:"claims"`
		Beneficiaries []domain.BeneficiaryAnalysis `json:"beneficiaries"`
		Contexts      []domain.HiddenContext       `json:"contexts"`
		Framings      []domain.AlternativeFraming  `json:"framings"`
	}
	if err := c.generateJSON(ctx, text, synthesisSystem, &resp); err != nil {
		return nil, fmt.Errorf("critical synthesis: %w", err)
	}
	return &domain.CriticalSynthesis{
		NaturalisedClaims:   resp.Claims,
		BeneficiaryAnalysis: resp.Beneficiaries,
		HiddenContexts:      resp.Contexts,
		AlternativeFramings: resp.Framings,
	}, nil
}

// Chat runs a free-form multi-turn completion. This is the only oracle call
// whose failure is fatal to a dialogue turn.
func (c *OllamaClient) Chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	var resp chatResponse
	err := c.post(ctx, "/api/chat", chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options:  &generateOptions{Temperature: 0.7, NumPredict: 2048},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return strings.TrimSpace(resp.Message.Content), nil
}

// Health reports whether the Ollama server is reachable.
func (c *OllamaClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("oracle unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("oracle health returned status %d", resp.StatusCode)
	}
	return nil
}
