package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/adventure-engine/internal/progression"
)

// ProgressHandler serves the builder-mode audit view and admin reset.
// Routes:
// GET /v1/progress?game_id=...&user_id=... - Event log + replayed state
// POST /v1/reset - Body {game_id, user_id}; clears a player's state
//
// Both require the X-Is-Admin header.
type ProgressHandler struct {
	service *progression.Service
	logger  *slog.Logger
}

func NewProgressHandler(service *progression.Service, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !isAdmin(r) {
		h.logger.Warn("Non-admin request to builder endpoint", "path", r.URL.Path)
		writeError(w, h.logger, http.StatusForbidden, "Builder mode requires admin access")
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v1/progress":
		h.handleProgress(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/v1/reset":
		h.handleReset(w, r)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed,
			"Method not allowed. Use GET /v1/progress or POST /v1/reset.")
	}
}

func (h *ProgressHandler) handleProgress(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game_id")
	userID := r.URL.Query().Get("user_id")
	if gameID == "" || userID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "game_id and user_id query parameters are required")
		return
	}

	report, err := h.service.Progress(r.Context(), gameID, userID)
	if err != nil {
		if errors.Is(err, progression.ErrWorldNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Game not found: "+gameID)
			return
		}
		h.logger.Error("Failed to build progress report", "error", err,
			"game_id", gameID, "user_id", userID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to build progress report")
		return
	}

	if !report.Consistent {
		h.logger.Error("Replay does not match stored state",
			"game_id", gameID, "user_id", userID)
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.logger.Error("Failed to encode progress response", "error", err)
	}
}

type resetRequest struct {
	GameID string `json:"game_id"`
	UserID string `json:"user_id"`
}

func (h *ProgressHandler) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.GameID == "" || req.UserID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "game_id and user_id are required")
		return
	}

	if err := h.service.Reset(r.Context(), req.GameID, req.UserID); err != nil {
		h.logger.Error("Failed to reset player state", "error", err,
			"game_id", req.GameID, "user_id", req.UserID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to reset player state")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
