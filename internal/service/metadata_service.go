package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/anthanhphan/gridstore/internal/domain"
)

// metadataService handles catalog reads.
type metadataService struct {
	core *FileServiceImpl
}

// newMetadataService creates the metadata use-case service.
func newMetadataService(core *FileServiceImpl) *metadataService {
	return &metadataService{core: core}
}

// findByName resolves a record by its public display name.
func (s *metadataService) findByName(ctx context.Context, displayName string) (*domain.FileRecord, error) {
	if displayName == "" {
		return nil, fmt.Errorf("%w: empty file name", domain.ErrValidation)
	}
	record, err := s.core.catalog.FindByName(ctx, displayName)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", displayName, err)
	}
	return record, nil
}

// findByID resolves a record by its internal file ID.
func (s *metadataService) findByID(ctx context.Context, fileID string) (*domain.FileRecord, error) {
	record, err := s.core.catalog.FindByID(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("lookup id %s: %w", fileID, err)
	}
	return record, nil
}

// listFiles returns all records, oldest upload first.
func (s *metadataService) listFiles(ctx context.Context) ([]*domain.FileRecord, error) {
	records, err := s.core.catalog.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].UploadedAt.Equal(records[j].UploadedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].UploadedAt.Before(records[j].UploadedAt)
	})
	return records, nil
}
