package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riverlabs/nexus/internal/domain"
	"github.com/riverlabs/nexus/internal/service"
)

type ChatHandler struct {
	engine   *service.Engine
	messages domain.MessageStore
	logger   *zap.Logger
}

func NewChatHandler(engine *service.Engine, messages domain.MessageStore, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{engine: engine, messages: messages, logger: logger}
}

type chatRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
	Mode      string `json:"mode,omitempty"`
}

type chatResponse struct {
	Reply     string                 `json:"reply"`
	SessionID uuid.UUID              `json:"session_id"`
	Mode      domain.ChatMode        `json:"mode"`
	Analysis  *domain.AnalysisResult `json:"analysis,omitempty"`
}

// Process runs one dialogue turn. The user message and the assistant reply
// are recorded in the message log; recording failure does not fail the turn.
func (h *ChatHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	mode := domain.ModeConversation
	if req.Mode != "" {
		if !domain.ValidChatMode(req.Mode) {
			writeError(w, http.StatusBadRequest, "invalid mode")
			return
		}
		mode = domain.ChatMode(req.Mode)
	}

	sessionID := uuid.New()
	if req.SessionID != "" {
		sessionID, err = uuid.Parse(req.SessionID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid session_id")
			return
		}
	}

	ctx := r.Context()

	if err := h.messages.EnsureSession(ctx, sessionID, userID, mode); err != nil {
		h.logger.Warn("failed to ensure session", zap.Error(err))
	}

	messageID, err := h.messages.SaveMessage(ctx, sessionID, userID, "user", req.Message, mode)
	if err != nil {
		h.logger.Warn("failed to record user message", zap.Error(err))
		messageID = uuid.New()
	}

	reply, analysis, err := h.engine.ProcessTurn(ctx, mode, userID, sessionID, messageID, req.Message)
	if err != nil {
		h.logger.Error("turn failed", zap.String("user_id", userID.String()), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "this turn could not be completed")
		return
	}

	if _, err := h.messages.SaveMessage(ctx, sessionID, userID, "assistant", reply, mode); err != nil {
		h.logger.Warn("failed to record assistant message", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Reply:     reply,
		SessionID: sessionID,
		Mode:      mode,
		Analysis:  analysis,
	})
}
