package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/xctimer/internal/middleware"
)

// Logging creates request logging middleware for the API. Health checks log at Debug.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger.With(slog.String("component", "api")), "/api/v1/health")
}
