package handler

import (
	"net/http"

	"github.com/mcoot/xctimer/internal/web/sse"
)

// EventsHandler streams live session updates
type EventsHandler struct {
	hub *sse.Hub
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(hub *sse.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Events handles GET /events
func (h *EventsHandler) Events(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hub)
}
