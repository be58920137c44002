package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/anthanhphan/gridstore/internal/port"
	"github.com/anthanhphan/gosdk/logger"
)

//go:generate mockgen -destination=mocks/dependencies_mock.go -package=mocks -source=upload_service.go

// IDGenerator defines file ID generation capability.
type IDGenerator interface {
	NextString() (string, error)
}

// NameGenerator derives a public display name from the client's file name.
type NameGenerator interface {
	Generate(originalName string) (string, error)
}

// uploadService orchestrates chunking and the final catalog commit.
type uploadService struct {
	core    *FileServiceImpl
	chunks  port.ChunkStore
	catalog port.FileCatalog
	idGen   IDGenerator
	names   NameGenerator
}

// uploadStats tracks aggregate stats while processing file chunks.
type uploadStats struct {
	totalSize  int64
	chunkCount int
	attempted  bool
}

// newUploadService creates the upload use-case service.
func newUploadService(core *FileServiceImpl, chunks port.ChunkStore, catalog port.FileCatalog, idGen IDGenerator, names NameGenerator) *uploadService {
	return &uploadService{core: core, chunks: chunks, catalog: catalog, idGen: idGen, names: names}
}

// uploadFile performs the full upload workflow from stream to committed record.
func (s *uploadService) uploadFile(ctx context.Context, req port.UploadRequest) (*domain.FileRecord, error) {
	if req.Body == nil {
		return nil, fmt.Errorf("%w: missing file body", domain.ErrValidation)
	}

	fileID, err := s.idGen.NextString()
	if err != nil {
		return nil, fmt.Errorf("failed to generate file id: %w", err)
	}
	displayName, err := s.names.Generate(req.FileName)
	if err != nil {
		return nil, err
	}

	untrack := s.core.trackUpload(fileID)
	defer untrack()

	logger.Infow("Upload started", "file_id", fileID, "file_name", req.FileName, "display_name", displayName)

	stats, err := s.streamChunks(ctx, fileID, req.Body)
	if err != nil {
		logger.Errorw("Upload failed", "file_id", fileID, "chunks", stats.chunkCount, "error", err.Error())
		s.core.metrics.UploadFailed()
		if stats.attempted {
			s.cleanupUpload(fileID, stats.chunkCount)
		}
		return nil, err
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = domain.DefaultContentType
	}

	record := &domain.FileRecord{
		ID:           fileID,
		DisplayName:  displayName,
		OriginalName: req.FileName,
		ContentType:  contentType,
		Length:       stats.totalSize,
		ChunkSize:    s.core.window,
		ChunkCount:   stats.chunkCount,
	}

	if err := s.verifyChunks(ctx, fileID, stats.chunkCount); err != nil {
		logger.Errorw("Chunk verification failed", "file_id", fileID, "chunks", stats.chunkCount, "error", err.Error())
		s.core.metrics.UploadFailed()
		s.cleanupUpload(fileID, stats.chunkCount)
		return nil, err
	}

	uncertain, err := s.commitRecord(ctx, record)
	if err != nil {
		logger.Errorw("Record commit failed", "file_id", fileID, "uncertain", uncertain, "error", err.Error())
		s.core.metrics.UploadFailed()
		// An uncertain commit may have landed; its chunks are left to the
		// sweeper, which only deletes once the record is confirmed missing.
		if stats.attempted && !uncertain {
			s.cleanupUpload(fileID, stats.chunkCount)
		}
		return nil, err
	}

	s.core.metrics.UploadSucceeded(record.Length)
	logger.Infow("Upload completed", "file_id", fileID, "display_name", record.DisplayName, "chunks", record.ChunkCount, "size_bytes", record.Length)
	return record, nil
}

// streamChunks reads the body window by window and stores each window in order.
func (s *uploadService) streamChunks(ctx context.Context, fileID string, reader io.Reader) (uploadStats, error) {
	var stats uploadStats

	buffer := s.core.pool.Get().(*[]byte)
	defer s.core.pool.Put(buffer)

	maxSize := s.core.cfg.App.MaxFileSize
	for {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("upload aborted: %w", err)
		}

		readN, readErr := io.ReadFull(reader, *buffer)
		if readN > 0 {
			if maxSize > 0 && stats.totalSize+int64(readN) > maxSize {
				return stats, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrValidation, maxSize)
			}

			stats.attempted = true
			if err := s.putChunk(ctx, fileID, stats.chunkCount, (*buffer)[:readN]); err != nil {
				return stats, err
			}
			stats.chunkCount++
			stats.totalSize += int64(readN)
		}

		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			return stats, nil
		}
		if readErr != nil {
			return stats, fmt.Errorf("read error: %w", readErr)
		}
	}
}

// putChunk stores one window under the per-chunk timeout.
func (s *uploadService) putChunk(ctx context.Context, fileID string, index int, data []byte) error {
	opCtx, cancel := s.core.withChunkTimeout(ctx)
	defer cancel()

	if err := s.chunks.Put(opCtx, fileID, index, data); err != nil {
		return fmt.Errorf("chunk %d write failed: %w", index, err)
	}
	return nil
}

// verifyChunks checks that exactly indices 0..chunkCount-1 are stored before
// the record is published.
func (s *uploadService) verifyChunks(ctx context.Context, fileID string, chunkCount int) error {
	if chunkCount == 0 {
		return nil
	}

	opCtx, cancel := s.core.withChunkTimeout(ctx)
	defer cancel()

	indices, err := s.chunks.List(opCtx, fileID)
	if err != nil {
		return fmt.Errorf("chunk listing failed: %w", err)
	}
	if len(indices) != chunkCount {
		return domain.NewStorageError("verify chunks", fmt.Errorf("stored %d of %d chunks", len(indices), chunkCount))
	}
	for i, idx := range indices {
		if idx != i {
			return domain.NewStorageError("verify chunks", fmt.Errorf("chunk %d missing", i))
		}
	}
	return nil
}

// commitRecord creates the catalog record, drawing a fresh display name when
// the current one is already taken. uncertain is true when the last Create
// failed in a way that may still have persisted the record.
func (s *uploadService) commitRecord(ctx context.Context, record *domain.FileRecord) (uncertain bool, err error) {
	attempts := s.core.cfg.App.NameAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			name, err := s.names.Generate(record.OriginalName)
			if err != nil {
				return false, err
			}
			logger.Warnw("Display name collision, regenerating", "file_id", record.ID, "taken", record.DisplayName, "next", name)
			record.DisplayName = name
		}

		record.UploadedAt = s.core.now().UTC()
		if err := record.Validate(); err != nil {
			return false, fmt.Errorf("invalid record for %s: %w", record.ID, err)
		}

		_, err := s.catalog.Create(ctx, record)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, domain.ErrNameTaken) {
			return true, fmt.Errorf("failed to commit record: %w", err)
		}
		lastErr = err
	}
	return false, fmt.Errorf("failed to commit record after %d attempts: %w", attempts, lastErr)
}

// cleanupUpload best-effort deletes already-written chunks after a failed upload.
// Anything left behind is reclaimed later by the sweeper.
func (s *uploadService) cleanupUpload(fileID string, chunkCount int) {
	s.core.background.Add(1)
	go func() {
		defer s.core.background.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		logger.Infow("Cleanup upload started", "file_id", fileID, "chunks", chunkCount)
		deleted, err := s.chunks.DeleteFile(ctx, fileID)
		if err != nil {
			logger.Warnw("Cleanup chunk delete failed", "file_id", fileID, "error", err.Error())
			return
		}
		logger.Infow("Cleanup upload finished", "file_id", fileID, "deleted_chunks", deleted)
	}()
}
