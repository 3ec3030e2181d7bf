package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/night-watch/internal/engine"
	"github.com/jwebster45206/night-watch/pkg/anomaly"
	"github.com/jwebster45206/night-watch/pkg/difficulty"
	"github.com/jwebster45206/night-watch/pkg/sim"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateSessionRequest starts a night on the requested difficulty.
// An empty difficulty defaults to medium.
type CreateSessionRequest struct {
	Difficulty string `json:"difficulty"`
}

// ActionRequest is a player action on a running session. Category is only
// read for the "report" action.
type ActionRequest struct {
	Action   string `json:"action"`
	Category string `json:"category,omitempty"`
}

type SessionHandler struct {
	manager *engine.Manager
	events  *EventsHandler // nil disables the SSE route
	logger  *slog.Logger
}

func NewSessionHandler(manager *engine.Manager, events *EventsHandler, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		events:  events,
		logger:  logger,
	}
}

// ServeHTTP handles HTTP requests for session operations
// Routes:
// POST /v1/sessions               - Create a new session
// GET /v1/sessions/{id}           - Read the session snapshot
// DELETE /v1/sessions/{id}        - Exit the session
// POST /v1/sessions/{id}/actions  - Dispatch a player action
// GET /v1/sessions/{id}/events    - Stream session events (SSE)
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.Split(path, "/")
	sessionID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", parts[0], "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleRead(w, r, sessionID)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.handleDelete(w, r, sessionID)
	case len(parts) == 2 && parts[1] == "actions" && r.Method == http.MethodPost:
		h.handleAction(w, r, sessionID)
	case len(parts) == 2 && parts[1] == "events" && r.Method == http.MethodGet:
		if h.events == nil {
			h.writeError(w, http.StatusNotFound, "Event streaming is not enabled")
			return
		}
		h.events.ServeSession(w, r, sessionID)
	default:
		h.writeError(w, http.StatusNotFound, "Unknown session route")
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tier := difficulty.Medium
	if req.Difficulty != "" {
		var err error
		tier, err = difficulty.Parse(req.Difficulty)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid difficulty. Expected easy, medium, or hard.")
			return
		}
	}

	snap, err := h.manager.Start(r.Context(), tier)
	if err != nil {
		h.logger.Error("Failed to start session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, snap)
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	snap, err := h.manager.Snapshot(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.writeJSON(w, snap)
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	err := h.manager.Exit(r.Context(), id)
	if errors.Is(err, engine.ErrSessionNotFound) && h.finishedInStore(r, id) {
		err = nil // already over; exiting again is fine
	}
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// finishedInStore reports whether a session the manager no longer runs
// still has a finished snapshot on record.
func (h *SessionHandler) finishedInStore(r *http.Request, id uuid.UUID) bool {
	snap, err := h.manager.Snapshot(r.Context(), id)
	return err == nil && snap.Over
}

func (h *SessionHandler) handleAction(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var fn func(*sim.Simulation) error
	switch req.Action {
	case "pause":
		fn = func(s *sim.Simulation) error { return s.Pause() }
	case "resume":
		fn = func(s *sim.Simulation) error { return s.Resume() }
	case "prev":
		fn = func(s *sim.Simulation) error { return s.NavigatePrev() }
	case "next":
		fn = func(s *sim.Simulation) error { return s.NavigateNext() }
	case "open-report":
		fn = func(s *sim.Simulation) error { return s.OpenReport() }
	case "cancel-report":
		fn = func(s *sim.Simulation) error { return s.CancelReport() }
	case "report":
		cat, err := anomaly.Parse(req.Category)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid anomaly category")
			return
		}
		fn = func(s *sim.Simulation) error { return s.Report(cat) }
	default:
		h.writeError(w, http.StatusBadRequest, "Unknown action")
		return
	}

	snap, err := h.manager.Do(r.Context(), id, fn)
	if errors.Is(err, engine.ErrSessionNotFound) && h.finishedInStore(r, id) {
		err = sim.ErrSessionOver
	}
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.writeJSON(w, snap)
}

func (h *SessionHandler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrSessionNotFound):
		h.writeError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, sim.ErrSessionOver):
		h.writeError(w, http.StatusGone, "Session is over")
	case errors.Is(err, sim.ErrReportBusy):
		h.writeError(w, http.StatusConflict, "Reporting system busy")
	default:
		h.logger.Error("Session operation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *SessionHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}

func (h *SessionHandler) writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}
