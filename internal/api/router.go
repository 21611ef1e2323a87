package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/xctimer/internal/api/handler"
	"github.com/mcoot/xctimer/internal/api/middleware"
	"github.com/mcoot/xctimer/internal/metrics"
	"github.com/mcoot/xctimer/internal/services/navigation"
	"github.com/mcoot/xctimer/internal/services/scoring"
	"github.com/mcoot/xctimer/internal/services/session"
	"github.com/mcoot/xctimer/internal/services/sharing"
	"github.com/mcoot/xctimer/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger    *slog.Logger
	Store     *session.Store
	Navigator *navigation.Navigator
	Sharing   *sharing.Service
	Scoring   *scoring.Service
	Metrics   *metrics.Recorder
	Hub       *sse.Hub
	// Saves reports the last save time for the health check (optional)
	Saves handler.SaveTracker
	// StorageType is reported by the health check
	StorageType string
	// CORSOrigins lists allowed browser origins; empty allows all
	CORSOrigins []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.Store)
	exportHandler := handler.NewExportHandler(cfg.Store, cfg.Sharing, cfg.Metrics)
	standingsHandler := handler.NewStandingsHandler(cfg.Store, cfg.Scoring)
	screenHandler := handler.NewScreenHandler(cfg.Navigator)
	eventsHandler := handler.NewEventsHandler(cfg.Hub)
	healthHandler := handler.NewHealthHandler(cfg.StorageType, cfg.Saves, cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(middleware.Recovery(cfg.Logger))

	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	// Session routes
	api.HandleFunc("/session", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/session", sessionHandler.Replace).Methods(http.MethodPut)
	api.HandleFunc("/session", sessionHandler.Import).Methods(http.MethodPatch)
	api.HandleFunc("/session/reset", sessionHandler.Reset).Methods(http.MethodPost)
	api.HandleFunc("/session/unit", sessionHandler.SetUnit).Methods(http.MethodPut)
	api.HandleFunc("/session/checkpoints", sessionHandler.Checkpoints).Methods(http.MethodGet)
	api.HandleFunc("/session/teams", sessionHandler.AddTeam).Methods(http.MethodPost)
	api.HandleFunc("/session/teams/{id}", sessionHandler.RemoveTeam).Methods(http.MethodDelete)
	api.HandleFunc("/session/runners", sessionHandler.AddRunner).Methods(http.MethodPost)
	api.HandleFunc("/session/runners/{id}", sessionHandler.RemoveRunner).Methods(http.MethodDelete)
	api.HandleFunc("/session/times", sessionHandler.AddTime).Methods(http.MethodPost)

	// Export routes
	api.HandleFunc("/session/export", exportHandler.Export).Methods(http.MethodGet)
	api.HandleFunc("/session/share", exportHandler.Share).Methods(http.MethodGet)
	api.HandleFunc("/session/qr", exportHandler.QRCode).Methods(http.MethodGet)

	api.HandleFunc("/session/standings/{checkpoint}", standingsHandler.Get).Methods(http.MethodGet)

	// Navigation routes
	api.HandleFunc("/screen", screenHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/screen", screenHandler.Set).Methods(http.MethodPut)

	api.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	return middleware.CORS(cfg.CORSOrigins)(r)
}
