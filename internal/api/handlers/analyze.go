package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/riverlabs/nexus/internal/service"
)

type AnalyzeHandler struct {
	engine *service.Engine
}

func NewAnalyzeHandler(engine *service.Engine) *AnalyzeHandler {
	return &AnalyzeHandler{engine: engine}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// Analyze runs the four-layer analysis on a text with no dialogue state.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	writeJSON(w, http.StatusOK, h.engine.AnalyzeOnly(r.Context(), req.Text))
}
