// Package redisstore keeps chunks and file records in Redis.
//
// Key layout, all under the bucket prefix:
//
//	<bucket>:chunk:<fileID>:<index>  chunk payload
//	<bucket>:chunks:<fileID>         sorted set of stored indices
//	<bucket>:chunkfiles              set of file IDs owning chunks
//	<bucket>:file:<fileID>           record JSON
//	<bucket>:filename:<name>         display name to file ID
//	<bucket>:files                   set of committed file IDs
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/anthanhphan/gridstore/internal/port"
	"github.com/anthanhphan/gridstore/pkg/resilience"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/redis/go-redis/v9"
)

// Options configures a Store.
type Options struct {
	URI     string
	Bucket  string
	Breaker resilience.CircuitBreakerConfig
}

// Store is a Redis-backed ChunkStore and FileCatalog.
type Store struct {
	uri     string
	bucket  string
	breaker *resilience.CircuitBreaker

	mu     sync.RWMutex
	client *redis.Client
}

var (
	_ port.Store       = (*Store)(nil)
	_ port.ChunkStore  = (*Store)(nil)
	_ port.FileCatalog = (*Store)(nil)
)

// New returns an unopened store. Call Open before use.
func New(opts Options) *Store {
	bucket := opts.Bucket
	if bucket == "" {
		bucket = "uploads"
	}

	breakerCfg := opts.Breaker
	if breakerCfg.Name == "" {
		breakerCfg.Name = "redis"
	}
	if breakerCfg.IsFailure == nil {
		breakerCfg.IsFailure = isBackendFailure
	}

	return &Store{
		uri:     opts.URI,
		bucket:  bucket,
		breaker: resilience.NewCircuitBreaker(breakerCfg),
	}
}

// isBackendFailure counts only errors that say something about Redis health.
func isBackendFailure(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, domain.ErrNotFound) &&
		!errors.Is(err, domain.ErrNameTaken) &&
		!errors.Is(err, context.Canceled)
}

// Open connects and verifies the server answers.
func (s *Store) Open(ctx context.Context) error {
	opts, err := redis.ParseURL(s.uri)
	if err != nil {
		return fmt.Errorf("invalid redis uri: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return domain.NewStorageError("connect", err)
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()

	logger.Infow("Redis store opened", "addr", opts.Addr, "db", opts.DB, "bucket", s.bucket)
	return nil
}

// Client returns the underlying connection, or nil before Open.
func (s *Store) Client() *redis.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// Ping checks the server through the circuit breaker.
func (s *Store) Ping(ctx context.Context) error {
	return s.do(ctx, "ping", func(ctx context.Context, c *redis.Client) error {
		return c.Ping(ctx).Err()
	})
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

// do runs fn against the open client under the circuit breaker and
// normalizes its error.
func (s *Store) do(ctx context.Context, op string, fn func(context.Context, *redis.Client) error) error {
	client := s.Client()
	if client == nil {
		return domain.NewStorageError(op, domain.ErrNotReady)
	}

	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return fn(ctx, client)
	})
	return domain.NewStorageError(op, err)
}

func (s *Store) key(parts ...string) string {
	k := s.bucket
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

func (s *Store) chunkKey(fileID string, index int) string {
	return s.key("chunk", domain.ChunkKey(fileID, index))
}
