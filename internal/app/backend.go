package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/anthanhphan/gridstore/internal/adapter/outbound/badgerstore"
	"github.com/anthanhphan/gridstore/internal/adapter/outbound/lz4codec"
	"github.com/anthanhphan/gridstore/internal/adapter/outbound/pgstore"
	"github.com/anthanhphan/gridstore/internal/adapter/outbound/redisstore"
	"github.com/anthanhphan/gridstore/internal/config"
	"github.com/anthanhphan/gridstore/internal/port"
	"github.com/anthanhphan/gridstore/pkg/idgen"
	"github.com/anthanhphan/gridstore/pkg/resilience"
)

// backend is an opened store plus the views the service needs of it.
type backend struct {
	store   port.Store
	chunks  port.ChunkStore
	catalog port.FileCatalog
	// clock is the time source for file IDs.
	clock idgen.Clock
}

// openBackend picks the store from the STORE_URI scheme and opens it.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	u, err := url.Parse(cfg.Store.URI)
	if err != nil {
		return nil, fmt.Errorf("invalid store uri: %w", err)
	}

	var b backend
	switch strings.ToLower(u.Scheme) {
	case "redis", "rediss":
		s := redisstore.New(redisstore.Options{
			URI:    cfg.Store.URI,
			Bucket: cfg.Store.Bucket,
			Breaker: resilience.CircuitBreakerConfig{
				FailureThreshold: cfg.Store.Breaker.FailureThreshold,
				OpenTimeout:      cfg.BreakerOpenTimeout(),
			},
		})
		if err := s.Open(ctx); err != nil {
			return nil, err
		}
		b = backend{store: s, chunks: s, catalog: s, clock: idgen.NewRedisClock(s.Client())}

	case "badger":
		// badger://memory or badger:///abs/path or badger://rel/path
		dir := u.Host + u.Path
		s := badgerstore.New(badgerstore.Options{Dir: dir, Bucket: cfg.Store.Bucket})
		if err := s.Open(ctx); err != nil {
			return nil, err
		}
		b = backend{store: s, chunks: s, catalog: s, clock: &idgen.SystemClock{}}

	case "postgres", "postgresql":
		s := pgstore.New(pgstore.Options{
			URI:      cfg.Store.URI,
			Bucket:   cfg.Store.Bucket,
			MaxConns: cfg.Store.Postgres.MaxConns,
			Migrate:  cfg.Store.Postgres.Migrate,
		})
		if err := s.Open(ctx); err != nil {
			return nil, err
		}
		b = backend{store: s, chunks: s, catalog: s, clock: &idgen.SystemClock{}}

	default:
		return nil, fmt.Errorf("unsupported store scheme %q", u.Scheme)
	}

	if cfg.Store.Compression {
		b.chunks = lz4codec.Wrap(b.chunks)
	}
	return &b, nil
}

// redactURI hides the password of a connection string for logging.
func redactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "invalid"
	}
	return u.Redacted()
}
