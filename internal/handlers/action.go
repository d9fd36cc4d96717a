package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/adventure-engine/internal/progression"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// IsAdminHeader carries the gateway-verified builder-mode flag. The
// engine treats it as an opaque bit; authenticating it is the
// gateway's job.
const IsAdminHeader = "X-Is-Admin"

func isAdmin(r *http.Request) bool {
	return r.Header.Get(IsAdminHeader) == "true"
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}

// ActionHandler applies player actions.
// Routes:
// POST /v1/actions - Apply a move/take/use/drop/select_option action
type ActionHandler struct {
	service *progression.Service
	logger  *slog.Logger
}

func NewActionHandler(service *progression.Service, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for actions endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed,
			"Method not allowed. Only POST is supported at /v1/actions.")
		return
	}

	var req progression.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.logger.Warn("Invalid action request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Apply(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, progression.ErrWorldNotFound):
			h.logger.Warn("Unknown game", "game_id", req.GameID)
			writeError(w, h.logger, http.StatusNotFound, "Game not found: "+req.GameID)
		case errors.Is(err, progression.ErrStoreConflict):
			h.logger.Error("Store conflict applying action",
				"game_id", req.GameID, "user_id", req.UserID)
			writeError(w, h.logger, http.StatusInternalServerError, "Store conflict")
		default:
			h.logger.Error("Failed to apply action", "error", err,
				"game_id", req.GameID, "user_id", req.UserID, "action", req.Action)
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to apply action")
		}
		return
	}

	h.logger.Debug("Action applied",
		"game_id", req.GameID, "user_id", req.UserID,
		"action", req.Action, "outcome", result.Outcome.Kind)

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("Failed to encode action response", "error", err)
	}
}
