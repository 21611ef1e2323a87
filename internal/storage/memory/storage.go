package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/xctimer/internal/dependencies/clock"
	"github.com/mcoot/xctimer/internal/model"
	"github.com/mcoot/xctimer/internal/storage"
)

type document struct {
	data    []byte
	savedAt time.Time
}

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu        sync.RWMutex
	clock     clock.Clock
	documents map[string]document
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		clock:     clock.New(),
		documents: make(map[string]document),
	}
}

// UseClock sets the clock save times are taken from
func (s *Storage) UseClock(c clock.Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = c
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetDocument(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[key]
	if !ok {
		return nil, model.ErrDocumentNotFound
	}
	result := make([]byte, len(doc.data))
	copy(result, doc.data)
	return result, nil
}

func (s *Storage) SaveDocument(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.documents[key] = document{data: stored, savedAt: s.clock.Now()}
	return nil
}

func (s *Storage) SavedAt(ctx context.Context, key string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[key]
	if !ok {
		return time.Time{}, model.ErrDocumentNotFound
	}
	return doc.savedAt, nil
}
