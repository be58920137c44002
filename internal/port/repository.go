package port

import (
	"context"

	"github.com/anthanhphan/gridstore/internal/domain"
)

//go:generate mockgen -destination=../service/mocks/repository_mock.go -package=mocks -source=repository.go

// ChunkStore persists fixed-size chunks addressed by (fileID, index).
type ChunkStore interface {
	// Put stores one chunk. Writing the same (fileID, index) twice overwrites it.
	Put(ctx context.Context, fileID string, index int, data []byte) error

	// Get returns the chunk payload or domain.ErrNotFound.
	Get(ctx context.Context, fileID string, index int) ([]byte, error)

	// List returns the stored indices for fileID in ascending order.
	List(ctx context.Context, fileID string) ([]int, error)

	// FileIDs returns every file ID that owns at least one chunk.
	FileIDs(ctx context.Context) ([]string, error)

	// DeleteFile removes all chunks of fileID and reports how many were removed.
	DeleteFile(ctx context.Context, fileID string) (int, error)
}

// FileCatalog persists one metadata record per stored file.
type FileCatalog interface {
	// Create commits the record atomically. It fails with domain.ErrNameTaken
	// when the display name is already used.
	Create(ctx context.Context, record *domain.FileRecord) (string, error)

	FindByName(ctx context.Context, displayName string) (*domain.FileRecord, error)
	FindByID(ctx context.Context, fileID string) (*domain.FileRecord, error)

	// ListAll returns all records in no particular order.
	ListAll(ctx context.Context) ([]*domain.FileRecord, error)
}

// Store is the lifecycle of a backing store shared by a ChunkStore and a FileCatalog.
type Store interface {
	Open(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
