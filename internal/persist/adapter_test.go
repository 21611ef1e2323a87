package persist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/xctimer/internal/dependencies/mocks"
	"github.com/mcoot/xctimer/internal/model"
	"github.com/mcoot/xctimer/internal/storage/memory"
)

type failingStorage struct {
	*memory.Storage
	err error
}

func (f *failingStorage) SaveDocument(ctx context.Context, key string, data []byte) error {
	return f.err
}

func (f *failingStorage) GetDocument(ctx context.Context, key string) ([]byte, error) {
	return nil, f.err
}

func (f *failingStorage) SavedAt(ctx context.Context, key string) (time.Time, error) {
	return time.Time{}, f.err
}

func TestAdapterLoadEmpty(t *testing.T) {
	adapter := NewAdapter(memory.New(), "")

	session, err := adapter.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Equal(t, DefaultKey, adapter.Key())
}

func TestAdapterSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	adapter := NewAdapter(store, "custom-key")

	session := model.NewSession("s1", 1000)
	session.Name = "Dual Meet"
	require.NoError(t, adapter.Save(ctx, &session))

	raw, err := store.GetDocument(ctx, "custom-key")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"version":2`)

	loaded, err := adapter.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Dual Meet", loaded.Name)
}

func TestAdapterLoadUpgradesLegacyDocument(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.SaveDocument(ctx, DefaultKey, []byte(legacyDocument)))

	loaded, err := NewAdapter(store, "").Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, model.GradeSenior, loaded.Runners[0].Grade)
}

func TestAdapterLoadMalformedDocument(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.SaveDocument(ctx, DefaultKey, []byte("{not json")))

	_, err := NewAdapter(store, "").Load(ctx)
	assert.ErrorIs(t, err, model.ErrInvalidDocument)
}

func TestAdapterPropagatesStorageErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("quota exceeded")
	adapter := NewAdapter(&failingStorage{Storage: memory.New(), err: boom}, "")

	session := model.NewSession("s1", 1000)
	assert.ErrorIs(t, adapter.Save(ctx, &session), boom)

	_, err := adapter.Load(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestAdapterLastSaved(t *testing.T) {
	store := memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 9, 14, 8, 0, 0, 0, time.UTC))
	store.UseClock(clk)
	adapter := NewAdapter(store, "")

	_, ok, err := adapter.LastSaved(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	session := model.NewSession("s1", 1)
	require.NoError(t, adapter.Save(context.Background(), &session))

	at, ok, err := adapter.LastSaved(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, clk.Now(), at)
}

func TestAdapterLastSavedStorageError(t *testing.T) {
	boom := errors.New("connection refused")
	adapter := NewAdapter(&failingStorage{Storage: memory.New(), err: boom}, "")

	_, ok, err := adapter.LastSaved(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}
