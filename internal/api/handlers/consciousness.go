package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/riverlabs/nexus/internal/service"
)

type ConsciousnessHandler struct {
	engine *service.Engine
}

func NewConsciousnessHandler(engine *service.Engine) *ConsciousnessHandler {
	return &ConsciousnessHandler{engine: engine}
}

// Get returns the user's current consciousness snapshot, falling back to the
// neutral default when no recent snapshot exists.
func (h *ConsciousnessHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	writeJSON(w, http.StatusOK, h.engine.CurrentState(r.Context(), userID))
}
