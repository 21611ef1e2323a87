package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/xctimer/internal/api/response"
	"github.com/mcoot/xctimer/internal/services/scoring"
	"github.com/mcoot/xctimer/internal/services/session"
)

// StandingsHandler ranks runners and teams at a checkpoint
type StandingsHandler struct {
	store   *session.Store
	scoring *scoring.Service
}

// NewStandingsHandler creates a new standings handler
func NewStandingsHandler(store *session.Store, scoringService *scoring.Service) *StandingsHandler {
	return &StandingsHandler{store: store, scoring: scoringService}
}

// Get handles GET /api/v1/session/standings/{checkpoint}
func (h *StandingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	checkpoint := mux.Vars(r)["checkpoint"]

	standings, err := h.scoring.Standings(h.store.Snapshot(), checkpoint)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, standings)
}
