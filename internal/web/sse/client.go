package sse

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mcoot/xctimer/internal/middleware"
)

const (
	pingPeriod = 30 * time.Second

	sendBufferSize = 256

	// reconnect hint sent to browsers, in milliseconds
	retryMillis = "3000"
)

// Client is one open event stream
type Client struct {
	hub         *Hub
	id          string
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a client with a buffered outbox
func NewClient(hub *Hub, id string) *Client {
	return &Client{
		hub:         hub,
		id:          id,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ClientID names a stream after its request ID, or the remote address when
// the request did not pass through the logging middleware
func ClientID(r *http.Request) string {
	if id := middleware.RequestID(r.Context()); id != "" {
		return id
	}
	return r.RemoteAddr
}

// ServeSSE streams hub events to the response until the client disconnects
// or the hub closes
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	client := NewClient(hub, ClientID(r))
	hub.Register(client)
	defer hub.Unregister(client)

	hello, _ := json.Marshal(map[string]string{"status": "connected", "clientId": client.id})
	_, _ = w.Write([]byte("retry: " + retryMillis + "\n\n"))
	_, _ = w.Write(formatSSEMessage("connected", string(hello)))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	write := func(b []byte) bool {
		if _, err := w.Write(b); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	for {
		select {
		case message, ok := <-client.send:
			if !ok || !write(message) {
				return
			}
		case <-ticker.C:
			if !write([]byte(": keepalive\n\n")) {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}
