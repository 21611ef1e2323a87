package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/xctimer/internal/model"
	"github.com/mcoot/xctimer/internal/storage"
)

// Storage keeps documents in Redis. Each document lives in a string key with
// a companion hash holding its save time and size.
type Storage struct {
	client *redis.Client
	cfg    Config
	now    func() time.Time
}

// New connects to the Redis server at cfg.URL and checks it responds
func New(ctx context.Context, cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetDocument(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, documentKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// SaveDocument writes the document and its metadata in one transaction
func (s *Storage) SaveDocument(ctx context.Context, key string, data []byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, documentKey(key), data, s.cfg.DocumentTTL)
		pipe.HSet(ctx, metaKey(key),
			"updated_at", s.now().UnixMilli(),
			"size", len(data),
		)
		if s.cfg.DocumentTTL > 0 {
			pipe.Expire(ctx, metaKey(key), s.cfg.DocumentTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save %s: %w", key, err)
	}
	return nil
}

// SavedAt reports when key was last saved
func (s *Storage) SavedAt(ctx context.Context, key string) (time.Time, error) {
	ms, err := s.client.HGet(ctx, metaKey(key), "updated_at").Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, model.ErrDocumentNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("redis meta %s: %w", key, err)
	}
	return time.UnixMilli(ms), nil
}
