package model

// EventType identifies the type of event
type EventType string

const (
	EventSessionUpdated EventType = "session-updated"
	EventScreenChanged  EventType = "screen-changed"
)

// Event is published to live subscribers whenever state changes
type Event struct {
	Type    EventType `json:"type"`
	Session *Session  `json:"session,omitempty"`
	Screen  Screen    `json:"screen,omitempty"`
}
