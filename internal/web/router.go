package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/xctimer/internal/services/navigation"
	"github.com/mcoot/xctimer/internal/services/session"
	"github.com/mcoot/xctimer/internal/services/sharing"
	"github.com/mcoot/xctimer/internal/web/handler"
	"github.com/mcoot/xctimer/internal/web/middleware"
	"github.com/mcoot/xctimer/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger    *slog.Logger
	Store     *session.Store
	Navigator *navigation.Navigator
	Sharing   *sharing.Service
	Hub       *sse.Hub
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))

	homeHandler := handler.NewHomeHandler(cfg.Store, cfg.Navigator)
	shareHandler := handler.NewShareHandler(cfg.Store, cfg.Sharing, cfg.Logger)
	eventsHandler := handler.NewEventsHandler(cfg.Hub)

	r.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/share", shareHandler.Share).Methods(http.MethodGet)
	r.HandleFunc("/events", eventsHandler.Events).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)

	return r
}
