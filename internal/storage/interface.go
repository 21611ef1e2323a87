package storage

import (
	"context"
	"time"
)

// Storage persists serialized documents under fixed keys.
// It is the service-side equivalent of browser local storage.
type Storage interface {
	// GetDocument returns the bytes stored under key, or model.ErrDocumentNotFound
	GetDocument(ctx context.Context, key string) ([]byte, error)
	// SaveDocument replaces whatever is stored under key
	SaveDocument(ctx context.Context, key string, data []byte) error
	// SavedAt reports when key was last written, or model.ErrDocumentNotFound
	SavedAt(ctx context.Context, key string) (time.Time, error)
}
