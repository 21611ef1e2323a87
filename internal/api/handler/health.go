package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/xctimer/internal/api/response"
)

// SaveTracker reports when the session was last persisted
type SaveTracker interface {
	LastSaved(ctx context.Context) (time.Time, bool, error)
}

// HealthHandler reports liveness and whether storage is reachable
type HealthHandler struct {
	storageType string
	saves       SaveTracker
	logger      *slog.Logger
}

// NewHealthHandler creates a health handler. saves may be nil, in which case
// storage is not checked.
func NewHealthHandler(storageType string, saves SaveTracker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{storageType: storageType, saves: saves, logger: logger}
}

// Get handles GET /api/v1/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	health := response.Health{Status: response.HealthOK, Storage: h.storageType}
	if h.saves == nil {
		response.JSON(w, http.StatusOK, health)
		return
	}

	at, ok, err := h.saves.LastSaved(r.Context())
	if err != nil {
		h.logger.Warn("storage health check failed", slog.Any("error", err))
		health.Status = response.HealthDegraded
		response.JSON(w, http.StatusServiceUnavailable, health)
		return
	}
	if ok {
		health.LastSaved = &at
	}
	response.JSON(w, http.StatusOK, health)
}
