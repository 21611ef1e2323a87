package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/xctimer/internal/model"
	"github.com/mcoot/xctimer/internal/services/navigation"
	"github.com/mcoot/xctimer/internal/services/session"
	"github.com/mcoot/xctimer/internal/web/templates/components"
)

// SSE event names
const (
	EventBoardUpdate = "board-update"
)

// Broadcaster turns session and screen changes into SSE events.
// Every session change is sent twice: as a JSON model.Event for API clients
// and as a rendered board fragment for the web page.
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Attach subscribes the broadcaster to the store and navigator and returns a
// function that detaches it
func (b *Broadcaster) Attach(store *session.Store, navigator *navigation.Navigator) func() {
	unsubStore := store.Subscribe(b.SessionUpdated)
	unsubNav := navigator.Subscribe(b.ScreenChanged)
	return func() {
		unsubStore()
		unsubNav()
	}
}

// SessionUpdated broadcasts the new session state
func (b *Broadcaster) SessionUpdated(s model.Session) {
	b.sendJSON(model.Event{Type: model.EventSessionUpdated, Session: &s})

	var buf bytes.Buffer
	if err := components.Board(s).Render(context.Background(), &buf); err != nil {
		b.logger.Error("sse failed to render board",
			slog.String("session_id", string(s.ID)),
			slog.Any("error", err))
		return
	}
	b.hub.BroadcastEvent(EventBoardUpdate, buf.String())
}

// ScreenChanged broadcasts the new active screen
func (b *Broadcaster) ScreenChanged(screen model.Screen) {
	b.sendJSON(model.Event{Type: model.EventScreenChanged, Screen: screen})
}

func (b *Broadcaster) sendJSON(event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}
	b.hub.BroadcastEvent(string(event.Type), string(data))
}
