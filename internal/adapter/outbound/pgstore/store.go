// Package pgstore keeps chunks and file records in PostgreSQL.
package pgstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/anthanhphan/gridstore/internal/port"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations
var migrationsFS embed.FS

// Options configures a Store.
type Options struct {
	URI      string
	Bucket   string
	MaxConns int32
	// Migrate applies the embedded schema migrations on Open.
	Migrate bool
}

// Store is a PostgreSQL-backed ChunkStore and FileCatalog.
type Store struct {
	opts Options

	mu   sync.RWMutex
	pool *pgxpool.Pool
}

var (
	_ port.Store       = (*Store)(nil)
	_ port.ChunkStore  = (*Store)(nil)
	_ port.FileCatalog = (*Store)(nil)
)

// New returns an unopened store. Call Open before use.
func New(opts Options) *Store {
	if opts.Bucket == "" {
		opts.Bucket = "uploads"
	}
	return &Store{opts: opts}
}

// Open migrates the schema if configured, then creates and validates the pool.
func (s *Store) Open(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(s.opts.URI)
	if err != nil {
		return fmt.Errorf("invalid postgres uri: %w", err)
	}
	if s.opts.MaxConns > 0 {
		poolCfg.MaxConns = s.opts.MaxConns
	}

	if s.opts.Migrate {
		if err := runMigrations(s.opts.URI); err != nil {
			return domain.NewStorageError("migrate", err)
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return domain.NewStorageError("connect", fmt.Errorf("create pool: %w", err))
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return domain.NewStorageError("connect", fmt.Errorf("ping database: %w", err))
	}

	s.mu.Lock()
	s.pool = pool
	s.mu.Unlock()

	logger.Infow("Postgres store opened", "host", poolCfg.ConnConfig.Host, "database", poolCfg.ConnConfig.Database, "bucket", s.opts.Bucket)
	return nil
}

// runMigrations applies all pending up migrations embedded in the binary.
func runMigrations(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("Database migrations applied")
	return nil
}

// Ping checks the database answers.
func (s *Store) Ping(ctx context.Context) error {
	pool, err := s.handle("ping")
	if err != nil {
		return err
	}
	return domain.NewStorageError("ping", pool.Ping(ctx))
}

// Close releases the pool.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	return nil
}

func (s *Store) handle(op string) (*pgxpool.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pool == nil {
		return nil, domain.NewStorageError(op, domain.ErrNotReady)
	}
	return s.pool, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
