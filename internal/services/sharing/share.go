package sharing

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// SharePayload is handed to a native share target
type SharePayload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// Sharer is a native share target
type Sharer interface {
	CanShare(payload SharePayload) bool
	Share(ctx context.Context, payload SharePayload) error
}

// Clipboard receives text copied as the share fallback
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// WriterClipboard copies text to an io.Writer
type WriterClipboard struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterClipboard creates a Clipboard writing to w
func NewWriterClipboard(w io.Writer) *WriterClipboard {
	return &WriterClipboard{w: w}
}

func (c *WriterClipboard) WriteText(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.w, text)
	return err
}
