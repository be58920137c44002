// Package badgerstore keeps chunks and file records in an embedded BadgerDB.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/anthanhphan/gridstore/internal/port"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/dgraph-io/badger/v4"
)

// MemoryDir opens the database in memory only.
const MemoryDir = "memory"

const (
	gcInterval     = 5 * time.Minute
	gcDiscardRatio = 0.5
)

// Options configures a Store.
type Options struct {
	// Dir is the data directory, or MemoryDir.
	Dir    string
	Bucket string
}

// Store is a BadgerDB-backed ChunkStore and FileCatalog.
type Store struct {
	dir    string
	bucket string

	mu     sync.RWMutex
	db     *badger.DB
	stopGC chan struct{}
	gcDone sync.WaitGroup
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
	return &Store{dir: opts.Dir, bucket: bucket}
}

// Open opens or creates the database.
func (s *Store) Open(_ context.Context) error {
	var opts badger.Options
	inMemory := s.dir == "" || s.dir == MemoryDir
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(s.dir)
	}

	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return domain.NewStorageError("open", fmt.Errorf("failed to open BadgerDB: %w", err))
	}

	s.mu.Lock()
	s.db = db
	s.stopGC = make(chan struct{})
	s.mu.Unlock()

	if !inMemory {
		s.gcDone.Add(1)
		go s.runGC(db, s.stopGC)
	}

	logger.Infow("Badger store opened", "dir", s.dir, "in_memory", inMemory, "bucket", s.bucket)
	return nil
}

// runGC reclaims value log space until stop is closed.
func (s *Store) runGC(db *badger.DB, stop <-chan struct{}) {
	defer s.gcDone.Done()

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			for db.RunValueLogGC(gcDiscardRatio) == nil {
			}
		}
	}
}

// Ping reports whether the database is open.
func (s *Store) Ping(_ context.Context) error {
	db, err := s.handle("ping")
	if err != nil {
		return err
	}
	if db.IsClosed() {
		return domain.NewStorageError("ping", errors.New("database closed"))
	}
	return nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	db := s.db
	stop := s.stopGC
	s.db = nil
	s.stopGC = nil
	s.mu.Unlock()

	if db == nil {
		return nil
	}
	close(stop)
	s.gcDone.Wait()
	return db.Close()
}

func (s *Store) handle(op string) (*badger.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, domain.NewStorageError(op, domain.ErrNotReady)
	}
	return s.db, nil
}

func (s *Store) chunkPrefix(fileID string) []byte {
	return []byte(s.bucket + "/chunk/" + fileID + "/")
}

func (s *Store) chunkKey(fileID string, index int) []byte {
	return []byte(fmt.Sprintf("%s/chunk/%s/%010d", s.bucket, fileID, index))
}

func (s *Store) fileKey(fileID string) []byte {
	return []byte(s.bucket + "/file/" + fileID)
}

func (s *Store) nameKey(displayName string) []byte {
	return []byte(s.bucket + "/name/" + displayName)
}
