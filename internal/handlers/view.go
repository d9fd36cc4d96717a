package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/adventure-engine/internal/progression"
)

// ViewHandler serves the read-only current scene view.
// Routes:
// GET /v1/view?game_id=...&user_id=... - Current scene view
//
// With the X-Is-Admin header set to "true", hidden items, exits and
// options are included, flagged as hidden, without mutating state.
type ViewHandler struct {
	service *progression.Service
	logger  *slog.Logger
}

func NewViewHandler(service *progression.Service, logger *slog.Logger) *ViewHandler {
	return &ViewHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ViewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed for view endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed,
			"Method not allowed. Only GET is supported at /v1/view.")
		return
	}

	gameID := r.URL.Query().Get("game_id")
	userID := r.URL.Query().Get("user_id")
	if gameID == "" || userID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "game_id and user_id query parameters are required")
		return
	}

	view, err := h.service.View(r.Context(), gameID, userID, isAdmin(r))
	if err != nil {
		if errors.Is(err, progression.ErrWorldNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Game not found: "+gameID)
			return
		}
		h.logger.Error("Failed to build view", "error", err, "game_id", gameID, "user_id", userID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to build view")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(view); err != nil {
		h.logger.Error("Failed to encode view response", "error", err)
	}
}
