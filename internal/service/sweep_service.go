package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/anthanhphan/gridstore/pkg/idgen"
	"github.com/anthanhphan/gridstore/pkg/resilience"
	"github.com/anthanhphan/gosdk/logger"
)

// SweepResult counts what one sweep reclaimed.
type SweepResult struct {
	Files  int
	Chunks int
}

// sweepService reclaims chunk sets that never got a committed record.
type sweepService struct {
	core *FileServiceImpl
}

// newSweepService creates the orphan sweep use-case service.
func newSweepService(core *FileServiceImpl) *sweepService {
	return &sweepService{core: core}
}

// sweep deletes chunks of every file ID that has no record and is older than
// the grace period. Younger chunk sets may belong to an upload in flight, and
// uploads running in this process are skipped at any age.
func (s *sweepService) sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	fileIDs, err := s.core.chunks.FileIDs(ctx)
	if err != nil {
		return result, err
	}

	grace := s.core.cfg.SweepGracePeriod()
	cutoff := s.core.now().Add(-grace)

	orphans := make([]string, 0)
	var lookupErrs []error
	for _, fileID := range fileIDs {
		createdAt, err := idgen.Timestamp(fileID)
		if err != nil {
			logger.Warnw("Sweep skipped unparseable file id", "file_id", fileID, "error", err.Error())
			continue
		}
		if createdAt.After(cutoff) || s.core.uploadInFlight(fileID) {
			continue
		}

		_, err = s.core.catalog.FindByID(ctx, fileID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			// Never delete on an uncertain lookup.
			logger.Warnw("Sweep lookup failed, skipping", "file_id", fileID, "error", err.Error())
			lookupErrs = append(lookupErrs, err)
			continue
		}
		orphans = append(orphans, fileID)
	}

	if len(orphans) == 0 {
		return result, errors.Join(lookupErrs...)
	}

	workers := s.core.cfg.Sweeper.Workers
	pool := resilience.NewWorkerPool(ctx, workers, len(orphans))

	var files, chunks atomic.Int64
	for _, fileID := range orphans {
		submitErr := pool.Submit(ctx, func(jobCtx context.Context) error {
			if s.core.uploadInFlight(fileID) {
				return nil
			}
			deleted, err := s.core.chunks.DeleteFile(jobCtx, fileID)
			if err != nil {
				logger.Warnw("Sweep delete failed", "file_id", fileID, "error", err.Error())
				return err
			}
			files.Add(1)
			chunks.Add(int64(deleted))
			return nil
		})
		if submitErr != nil {
			break
		}
	}
	pool.Close()
	poolErr := pool.Wait()

	result.Files = int(files.Load())
	result.Chunks = int(chunks.Load())
	s.core.metrics.Swept(result.Files, result.Chunks)

	logger.Infow("Sweep finished", "orphans", len(orphans), "files", result.Files, "chunks", result.Chunks)
	if err := errors.Join(append(lookupErrs, poolErr)...); err != nil {
		return result, err
	}
	return result, ctx.Err()
}

// startWorker runs sweep on every tick until ctx is done.
func (s *sweepService) startWorker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Infow("Sweeper started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("Sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.sweep(ctx); err != nil && ctx.Err() == nil {
				logger.Errorw("Sweep failed", "error", err.Error())
			}
		}
	}
}
