package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/xctimer/internal/dependencies/clock"
	"github.com/mcoot/xctimer/internal/dependencies/random"
	"github.com/mcoot/xctimer/internal/metrics"
	"github.com/mcoot/xctimer/internal/persist"
	"github.com/mcoot/xctimer/internal/services/navigation"
	"github.com/mcoot/xctimer/internal/services/scoring"
	"github.com/mcoot/xctimer/internal/services/session"
	"github.com/mcoot/xctimer/internal/services/sharing"
	"github.com/mcoot/xctimer/internal/storage"
	"github.com/mcoot/xctimer/internal/storage/memory"
	redisstorage "github.com/mcoot/xctimer/internal/storage/redis"
	sqlitestorage "github.com/mcoot/xctimer/internal/storage/sqlite"
	"github.com/mcoot/xctimer/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage     storage.Storage
	StorageType string
	Persister   *persist.Adapter

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger

	// Services
	Store       *session.Store
	Navigator   *navigation.Navigator
	Sharing     *sharing.Service
	Scoring     *scoring.Service
	Metrics     *metrics.Recorder
	Hub         *sse.Hub
	Broadcaster *sse.Broadcaster

	detach func()
	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// StorageKey is the key the session document is stored under (optional)
	StorageKey string
}

// New creates a new application with all dependencies wired and the session loaded
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}
	store, closer, err := newStorage(ctx, storageType, cfg)
	if err != nil {
		return nil, err
	}

	app := newWithDependencies(ctx, store, clock.New(), random.New(), cfg.StorageKey, logger)
	app.StorageType = storageType
	app.closer = closer
	return app, nil
}

func newStorage(ctx context.Context, storageType string, cfg Config) (storage.Storage, io.Closer, error) {
	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(ctx, *cfg.RedisConfig)
		if err != nil {
			return nil, nil, err
		}
		return redisStore, redisStore, nil
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlitestorage.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqliteStore, sqliteStore, nil
	default:
		return nil, nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	ctx context.Context,
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	key string,
	logger *slog.Logger,
) *App {
	persister := persist.NewAdapter(store, key)
	recorder := metrics.NewRecorder(nil)
	sessionStore := session.Open(ctx, persister, clk, rnd, recorder, logger)
	navigator := navigation.NewNavigator(logger)

	hub := sse.NewHub(logger)
	go hub.Run()
	broadcaster := sse.NewBroadcaster(hub, logger)

	return &App{
		Storage:     store,
		Persister:   persister,
		Clock:       clk,
		Random:      rnd,
		Logger:      logger,
		Store:       sessionStore,
		Navigator:   navigator,
		Sharing:     sharing.NewService(logger),
		Scoring:     scoring.New(),
		Metrics:     recorder,
		Hub:         hub,
		Broadcaster: broadcaster,
		detach:      broadcaster.Attach(sessionStore, navigator),
	}
}

// Close stops live updates and releases the storage backend
func (a *App) Close() error {
	a.detach()
	a.Hub.Close()
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}
