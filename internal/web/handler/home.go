package handler

import (
	"net/http"

	"github.com/mcoot/xctimer/internal/services/navigation"
	"github.com/mcoot/xctimer/internal/services/session"
	"github.com/mcoot/xctimer/internal/web/templates/layout"
	"github.com/mcoot/xctimer/internal/web/templates/pages"
)

// HomeHandler renders the live timing board
type HomeHandler struct {
	store     *session.Store
	navigator *navigation.Navigator
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(store *session.Store, navigator *navigation.Navigator) *HomeHandler {
	return &HomeHandler{
		store:     store,
		navigator: navigator,
	}
}

// Home renders the home page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.Snapshot()
	data := pages.HomeData{
		PageData: layout.PageData{Title: snapshot.Name},
		Session:  snapshot,
		Screen:   h.navigator.Current(),
	}

	render(w, r, pages.Home(data))
}
