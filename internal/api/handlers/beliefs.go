package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/riverlabs/nexus/internal/domain"
	"github.com/riverlabs/nexus/internal/service"
)

type BeliefHandler struct {
	engine *service.Engine
}

func NewBeliefHandler(engine *service.Engine) *BeliefHandler {
	return &BeliefHandler{engine: engine}
}

type listBeliefsResponse struct {
	Beliefs []domain.Belief `json:"beliefs"`
	Count   int             `json:"count"`
}

// List returns a user's beliefs, newest first.
func (h *BeliefHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	beliefs, err := h.engine.ListBeliefs(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list beliefs")
		return
	}
	if beliefs == nil {
		beliefs = []domain.Belief{}
	}

	writeJSON(w, http.StatusOK, listBeliefsResponse{Beliefs: beliefs, Count: len(beliefs)})
}
