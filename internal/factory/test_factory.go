package factory

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/xctimer/internal/dependencies/mocks"
	"github.com/mcoot/xctimer/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MockRandom    *mocks.MockRandom
	MemoryStorage *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(memory.New())
}

// NewTestAppWithStorage creates a test App over pre-populated storage
func NewTestAppWithStorage(store *memory.Storage) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	store.UseClock(mockClock)
	app := newWithDependencies(context.Background(), store, mockClock, mockRandom, "", logger)
	app.StorageType = StorageTypeMemory

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockRandom:    mockRandom,
		MemoryStorage: store,
	}
}
