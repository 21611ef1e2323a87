package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mcoot/xctimer/internal/model"
	"github.com/mcoot/xctimer/internal/storage"
)

// DefaultKey is the storage key the active session is kept under
const DefaultKey = "xc-timer-session"

// Adapter loads and saves the active session as a versioned document in a Storage
type Adapter struct {
	storage storage.Storage
	key     string
}

// NewAdapter creates an Adapter storing the session under key (DefaultKey if empty)
func NewAdapter(store storage.Storage, key string) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{
		storage: store,
		key:     key,
	}
}

// Key returns the storage key used by the adapter
func (a *Adapter) Key() string {
	return a.key
}

// Load returns the stored session upgraded to the current version,
// or nil when nothing has been stored yet
func (a *Adapter) Load(ctx context.Context) (*model.Session, error) {
	data, err := a.storage.GetDocument(ctx, a.key)
	if err != nil {
		if errors.Is(err, model.ErrDocumentNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session document: %w", err)
	}

	session, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Save writes the full session, replacing the stored document
func (a *Adapter) Save(ctx context.Context, session *model.Session) error {
	data, err := Encode(*session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := a.storage.SaveDocument(ctx, a.key, data); err != nil {
		return fmt.Errorf("write session document: %w", err)
	}
	return nil
}

// LastSaved reports when the session document was last written. ok is false
// when nothing has been stored yet.
func (a *Adapter) LastSaved(ctx context.Context) (at time.Time, ok bool, err error) {
	at, err = a.storage.SavedAt(ctx, a.key)
	if err != nil {
		if errors.Is(err, model.ErrDocumentNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("read session metadata: %w", err)
	}
	return at, true, nil
}
