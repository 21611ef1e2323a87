package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/xctimer/internal/api/request"
	"github.com/mcoot/xctimer/internal/api/response"
	"github.com/mcoot/xctimer/internal/model"
	"github.com/mcoot/xctimer/internal/persist"
	"github.com/mcoot/xctimer/internal/racetime"
	"github.com/mcoot/xctimer/internal/services/session"
)

// maxDocumentSize caps whole-session uploads
const maxDocumentSize = 4 << 20

// SessionHandler handles the session endpoints
type SessionHandler struct {
	store *session.Store
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(store *session.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

// Get handles GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.store.Snapshot())
}

// Replace handles PUT /api/v1/session. The body may be any stored document
// version; it is upgraded before being installed.
func (h *SessionHandler) Replace(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
	if err != nil {
		WriteError(w, NewInvalidRequestError("Could not read request body"))
		return
	}

	next, err := persist.Decode(data)
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := next.Validate(); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.store.Set(r.Context(), next); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, h.store.Snapshot())
}

// Import handles PATCH /api/v1/session
func (h *SessionHandler) Import(w http.ResponseWriter, r *http.Request) {
	var patch model.SessionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid session data"))
		return
	}

	if err := h.store.ImportData(r.Context(), patch); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, h.store.Snapshot())
}

// Reset handles POST /api/v1/session/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reset(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, h.store.Snapshot())
}

// SetUnit handles PUT /api/v1/session/unit
func (h *SessionHandler) SetUnit(w http.ResponseWriter, r *http.Request) {
	var req request.SetUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.store.SetUnit(r.Context(), model.Unit(req.Unit)); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.CheckpointsFromSession(h.store.Snapshot()))
}

// Checkpoints handles GET /api/v1/session/checkpoints
func (h *SessionHandler) Checkpoints(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.CheckpointsFromSession(h.store.Snapshot()))
}

// AddTeam handles POST /api/v1/session/teams
func (h *SessionHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	var req request.AddTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	team, err := h.store.AddTeam(r.Context(), req.Name, req.Color)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, team)
}

// RemoveTeam handles DELETE /api/v1/session/teams/{id}
func (h *SessionHandler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveTeam(r.Context(), mux.Vars(r)["id"]); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// AddRunner handles POST /api/v1/session/runners
func (h *SessionHandler) AddRunner(w http.ResponseWriter, r *http.Request) {
	var req request.AddRunnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	runner, err := h.store.AddRunner(r.Context(), req.Name, model.Grade(req.Grade), req.TeamID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, runner)
}

// RemoveRunner handles DELETE /api/v1/session/runners/{id}
func (h *SessionHandler) RemoveRunner(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveRunner(r.Context(), mux.Vars(r)["id"]); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// AddTime handles POST /api/v1/session/times
func (h *SessionHandler) AddTime(w http.ResponseWriter, r *http.Request) {
	var req request.AddTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	elapsed := req.Time
	if req.Seconds != nil {
		elapsed = racetime.FormatTime(*req.Seconds)
	}
	if _, err := racetime.ParseElapsed(elapsed); err != nil {
		WriteError(w, err)
		return
	}

	entry, err := h.store.RecordTime(r.Context(), req.RunnerID, req.Checkpoint, elapsed, req.RaceName)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, entry)
}
