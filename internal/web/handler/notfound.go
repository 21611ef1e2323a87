package handler

import (
	"net/http"

	"github.com/mcoot/xctimer/internal/web/templates/layout"
)

// NotFound renders the error page for unknown paths
func NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_ = layout.ErrorPage(http.StatusNotFound, "There is no page at "+r.URL.Path+".").Render(r.Context(), w)
}
