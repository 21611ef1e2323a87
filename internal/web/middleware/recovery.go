package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mcoot/xctimer/internal/middleware"
	"github.com/mcoot/xctimer/internal/web/templates/layout"
)

// Recovery creates panic recovery middleware for the web interface.
// A panic renders the error page.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	msg := "Something went wrong. Your recorded times are safe; reload to continue."
	if id := middleware.RequestID(r.Context()); id != "" {
		msg += " Reference: " + id
	}
	_ = layout.ErrorPage(http.StatusInternalServerError, msg).Render(context.Background(), w)
}
