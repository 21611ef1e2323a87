package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/xctimer/internal/dependencies/mocks"
	"github.com/mcoot/xctimer/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndGetDocument() {
	err := s.storage.SaveDocument(s.ctx, "session", []byte(`{"id":"abc"}`))
	s.Require().NoError(err)

	data, err := s.storage.GetDocument(s.ctx, "session")
	s.Require().NoError(err)
	s.JSONEq(`{"id":"abc"}`, string(data))
}

func (s *StorageSuite) TestGetDocumentNotFound() {
	_, err := s.storage.GetDocument(s.ctx, "missing")
	s.ErrorIs(err, model.ErrDocumentNotFound)
}

func (s *StorageSuite) TestSaveReplacesExisting() {
	_ = s.storage.SaveDocument(s.ctx, "session", []byte("first"))
	_ = s.storage.SaveDocument(s.ctx, "session", []byte("second"))

	data, err := s.storage.GetDocument(s.ctx, "session")
	s.Require().NoError(err)
	s.Equal("second", string(data))
}

func (s *StorageSuite) TestSavedAt() {
	clk := mocks.NewMockClock(time.Date(2024, 10, 5, 9, 30, 0, 0, time.UTC))
	s.storage.UseClock(clk)

	_, err := s.storage.SavedAt(s.ctx, "session")
	s.ErrorIs(err, model.ErrDocumentNotFound)

	_ = s.storage.SaveDocument(s.ctx, "session", []byte("first"))
	at, err := s.storage.SavedAt(s.ctx, "session")
	s.Require().NoError(err)
	s.Equal(clk.Now(), at)

	later := clk.Advance(time.Minute)
	_ = s.storage.SaveDocument(s.ctx, "session", []byte("second"))
	at, err = s.storage.SavedAt(s.ctx, "session")
	s.Require().NoError(err)
	s.Equal(later, at)
}

func (s *StorageSuite) TestStoredBytesAreIsolated() {
	data := []byte("abc")
	_ = s.storage.SaveDocument(s.ctx, "session", data)
	data[0] = 'x'

	stored, err := s.storage.GetDocument(s.ctx, "session")
	s.Require().NoError(err)
	s.Equal("abc", string(stored))

	stored[1] = 'y'
	again, _ := s.storage.GetDocument(s.ctx, "session")
	s.Equal("abc", string(again))
}
