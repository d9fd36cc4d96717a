package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/adventure-engine/internal/progression"
)

// WorldsHandler lists the available world definitions.
// Routes:
// GET /v1/worlds - Map of world name to game ID
type WorldsHandler struct {
	service *progression.Service
	logger  *slog.Logger
}

func NewWorldsHandler(service *progression.Service, logger *slog.Logger) *WorldsHandler {
	return &WorldsHandler{
		service: service,
		logger:  logger,
	}
}

func (h *WorldsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed for worlds endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed,
			"Method not allowed. Only GET is supported at /v1/worlds.")
		return
	}

	worlds, err := h.service.ListWorlds(r.Context())
	if err != nil {
		h.logger.Error("Failed to list worlds", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list worlds")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(worlds); err != nil {
		h.logger.Error("Failed to encode worlds response", "error", err)
	}
}
