package port

import (
	"context"
	"io"

	"github.com/anthanhphan/gridstore/internal/domain"
)

// FileStream is a lazy, ordered, single-pass sequence of chunk payloads.
type FileStream interface {
	io.ReadCloser

	// Next returns the next chunk payload, or io.EOF after the last one.
	Next(ctx context.Context) ([]byte, error)
}

// UploadRequest describes one incoming file.
type UploadRequest struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// FileService defines the business logic for file operations.
type FileService interface {
	// UploadFile chunks and stores the body, then commits its record.
	UploadFile(ctx context.Context, req UploadRequest) (*domain.FileRecord, error)

	// ListFiles returns every committed record.
	ListFiles(ctx context.Context) ([]*domain.FileRecord, error)

	// GetFile looks a record up by display name.
	GetFile(ctx context.Context, displayName string) (*domain.FileRecord, error)

	// ReadFile returns the record and its full content held in memory.
	ReadFile(ctx context.Context, displayName string) (*domain.FileRecord, []byte, error)

	// StreamFile returns the record and a stream over its content.
	StreamFile(ctx context.Context, displayName string) (*domain.FileRecord, FileStream, error)

	// StreamImage is StreamFile restricted to displayable images;
	// other content types fail with domain.ErrUnsupportedMedia.
	StreamImage(ctx context.Context, displayName string) (*domain.FileRecord, FileStream, error)

	// Ping checks the backing store.
	Ping(ctx context.Context) error
}
