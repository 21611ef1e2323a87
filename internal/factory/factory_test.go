package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/xctimer/internal/model"
	"github.com/mcoot/xctimer/internal/persist"
	"github.com/mcoot/xctimer/internal/storage/memory"
	redisstorage "github.com/mcoot/xctimer/internal/storage/redis"
)

type FactorySuite struct {
	suite.Suite
	ctx context.Context
}

func TestFactorySuite(t *testing.T) {
	suite.Run(t, new(FactorySuite))
}

func (s *FactorySuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *FactorySuite) TestNewDefaultsToMemory() {
	app, err := New(s.ctx, Config{})
	s.Require().NoError(err)
	defer app.Close()

	s.IsType(&memory.Storage{}, app.Storage)
	s.Equal(persist.DefaultKey, app.Persister.Key())
	s.Equal(model.DefaultSessionName, app.Store.Snapshot().Name)
	s.Equal(model.DefaultScreen, app.Navigator.Current())
}

func (s *FactorySuite) TestNewRejectsUnknownStorage() {
	_, err := New(s.ctx, Config{StorageType: "etcd"})
	s.ErrorContains(err, "invalid StorageType")
}

func (s *FactorySuite) TestNewRequiresBackendSettings() {
	_, err := New(s.ctx, Config{StorageType: StorageTypeRedis})
	s.Error(err)

	_, err = New(s.ctx, Config{StorageType: StorageTypeSQLite})
	s.Error(err)
}

func (s *FactorySuite) TestSQLiteSessionSurvivesRestart() {
	path := filepath.Join(s.T().TempDir(), "xctimer.db")
	cfg := Config{StorageType: StorageTypeSQLite, SQLitePath: path, StorageKey: "meet"}

	app, err := New(s.ctx, cfg)
	s.Require().NoError(err)
	_, err = app.Store.AddTeam(s.ctx, "Varsity", "red")
	s.Require().NoError(err)
	id := app.Store.Snapshot().ID
	s.Require().NoError(app.Close())

	reopened, err := New(s.ctx, cfg)
	s.Require().NoError(err)
	defer reopened.Close()

	snapshot := reopened.Store.Snapshot()
	s.Equal(id, snapshot.ID)
	s.Len(snapshot.Teams, 1)
}

func (s *FactorySuite) TestRedisSessionSurvivesRestart() {
	mr := miniredis.RunT(s.T())
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mr.Addr()
	cfg := Config{StorageType: StorageTypeRedis, RedisConfig: &redisCfg}

	app, err := New(s.ctx, cfg)
	s.Require().NoError(err)
	_, err = app.Store.AddRunner(s.ctx, "Ana", model.GradeSenior, "")
	s.Require().NoError(err)
	s.Require().NoError(app.Close())

	s.True(mr.Exists("xctimer:doc:" + persist.DefaultKey))

	reopened, err := New(s.ctx, cfg)
	s.Require().NoError(err)
	defer reopened.Close()
	s.Len(reopened.Store.Snapshot().Runners, 1)
}

func (s *FactorySuite) TestTestAppUsesMocks() {
	app := NewTestApp()
	defer app.Close()

	created := app.Store.Snapshot().Created
	s.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).UnixMilli(), created)

	app.MockClock.Advance(time.Minute)
	_, err := app.Store.AddTeam(s.ctx, "A", "red")
	s.Require().NoError(err)
	s.Equal(created+time.Minute.Milliseconds(), app.Store.Snapshot().Updated)

	_, err = app.MemoryStorage.GetDocument(s.ctx, persist.DefaultKey)
	s.NoError(err)
}
