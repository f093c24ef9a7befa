// Package redis is the shared coordinate-cache backend: zip entries stored as
// plain string values over rueidis, so every API replica sees the same
// lookups and known-missing markers.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/talentdex/internal/db"
)

var (
	_ db.KVStore = (*Store)(nil)
	_ db.Pinger  = (*Store)(nil)
)

// Config holds connection parameters for the coordinate cache.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	// LocalTTL enables rueidis client-side caching of reads for this long.
	// Zero sends every read to the server.
	LocalTTL time.Duration
}

// Store keeps coordinate cache entries in Redis (or any RESP3 server).
type Store struct {
	client   rueidis.Client
	localTTL time.Duration
}

// NewStore connects to the coordinate cache server.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("coordinate cache: addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: cfg.LocalTTL <= 0,
	})
	if err != nil {
		return nil, fmt.Errorf("coordinate cache client: %w", err)
	}

	return &Store{client: client, localTTL: cfg.LocalTTL}, nil
}

// Ping checks that the cache server answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("coordinate cache ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the server responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for coordinate cache: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// read runs GET through the client-side cache when it is enabled.
func (s *Store) read(ctx context.Context, key string) rueidis.RedisResult {
	if s.localTTL > 0 {
		return s.client.DoCache(ctx, s.client.B().Get().Key(key).Cache(), s.localTTL)
	}
	return s.client.Do(ctx, s.client.B().Get().Key(key).Build())
}
