package service

import (
	"context"
	"sync"
	"time"

	"github.com/anthanhphan/gridstore/internal/config"
	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/anthanhphan/gridstore/internal/metrics"
	"github.com/anthanhphan/gridstore/internal/port"
)

// FileServiceImpl is the facade that wires use-case services for file operations.
type FileServiceImpl struct {
	cfg     *config.Config
	chunks  port.ChunkStore
	catalog port.FileCatalog
	store   port.Store
	metrics *metrics.Metrics
	pool    *sync.Pool
	now     func() time.Time

	// window is the chunk size used for new uploads.
	window int64

	// background tracks best-effort cleanups started by failed uploads.
	background sync.WaitGroup

	// inflight holds the file IDs of uploads that have not returned yet.
	// The sweeper never reclaims them regardless of age.
	inflight sync.Map

	uploadUseCase   *uploadService
	downloadUseCase *downloadService
	metadataUseCase *metadataService
	sweepUseCase    *sweepService
}

// Ensure FileServiceImpl implements port.FileService.
var _ port.FileService = (*FileServiceImpl)(nil)

// Dependencies carries the collaborators of NewFileService.
type Dependencies struct {
	Chunks  port.ChunkStore
	Catalog port.FileCatalog
	Store   port.Store
	IDGen   IDGenerator
	Names   NameGenerator
	Metrics *metrics.Metrics
}

// NewFileService builds the file service facade and all use-case services.
func NewFileService(cfg *config.Config, deps Dependencies) *FileServiceImpl {
	chunkSize := cfg.App.ChunkSize
	if chunkSize <= 0 || chunkSize > domain.MaxChunkSize {
		chunkSize = domain.DefaultChunkSize
	}

	names := deps.Names
	if names == nil {
		names = NewRandomNamer()
	}

	svc := &FileServiceImpl{
		cfg:     cfg,
		chunks:  deps.Chunks,
		catalog: deps.Catalog,
		store:   deps.Store,
		metrics: deps.Metrics,
		now:     time.Now,
		window:  chunkSize,
		pool: &sync.Pool{
			New: func() interface{} {
				// One reusable window per in-flight upload.
				b := make([]byte, chunkSize)
				return &b
			},
		},
	}

	svc.metadataUseCase = newMetadataService(svc)
	svc.uploadUseCase = newUploadService(svc, deps.Chunks, deps.Catalog, deps.IDGen, names)
	svc.downloadUseCase = newDownloadService(svc, svc.metadataUseCase)
	svc.sweepUseCase = newSweepService(svc)

	return svc
}

// UploadFile delegates upload orchestration to the upload use-case service.
func (s *FileServiceImpl) UploadFile(ctx context.Context, req port.UploadRequest) (*domain.FileRecord, error) {
	return s.uploadUseCase.uploadFile(ctx, req)
}

// ListFiles returns every committed record.
func (s *FileServiceImpl) ListFiles(ctx context.Context) ([]*domain.FileRecord, error) {
	return s.metadataUseCase.listFiles(ctx)
}

// GetFile delegates metadata read to the metadata use-case service.
func (s *FileServiceImpl) GetFile(ctx context.Context, displayName string) (*domain.FileRecord, error) {
	return s.metadataUseCase.findByName(ctx, displayName)
}

// ReadFile drains a file into memory.
func (s *FileServiceImpl) ReadFile(ctx context.Context, displayName string) (*domain.FileRecord, []byte, error) {
	return s.downloadUseCase.readAll(ctx, displayName)
}

// StreamFile opens a lazy content stream for any file.
func (s *FileServiceImpl) StreamFile(ctx context.Context, displayName string) (*domain.FileRecord, port.FileStream, error) {
	return s.downloadUseCase.open(ctx, displayName, nil)
}

// StreamImage opens a content stream only for displayable images.
func (s *FileServiceImpl) StreamImage(ctx context.Context, displayName string) (*domain.FileRecord, port.FileStream, error) {
	return s.downloadUseCase.open(ctx, displayName, requireImage)
}

// OpenByID opens a content stream addressed by internal file ID.
func (s *FileServiceImpl) OpenByID(ctx context.Context, fileID string) (*domain.FileRecord, port.FileStream, error) {
	record, err := s.metadataUseCase.findByID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	return record, s.downloadUseCase.newStream(ctx, record), nil
}

// Ping checks the backing store.
func (s *FileServiceImpl) Ping(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Ping(ctx)
}

// Sweep reclaims orphaned chunk sets once.
func (s *FileServiceImpl) Sweep(ctx context.Context) (SweepResult, error) {
	return s.sweepUseCase.sweep(ctx)
}

// StartSweeper runs Sweep every interval until ctx is done.
func (s *FileServiceImpl) StartSweeper(ctx context.Context, interval time.Duration) {
	s.sweepUseCase.startWorker(ctx, interval)
}

// Close waits for background cleanups started by failed uploads.
func (s *FileServiceImpl) Close() {
	s.background.Wait()
}

// trackUpload marks fileID as in flight until the returned func is called.
func (s *FileServiceImpl) trackUpload(fileID string) func() {
	s.inflight.Store(fileID, struct{}{})
	return func() { s.inflight.Delete(fileID) }
}

// uploadInFlight reports whether fileID belongs to a running upload.
func (s *FileServiceImpl) uploadInFlight(fileID string) bool {
	_, ok := s.inflight.Load(fileID)
	return ok
}

// chunkTimeout bounds a single store call on the chunk path.
func (s *FileServiceImpl) chunkTimeout() time.Duration {
	return s.cfg.ChunkTimeout()
}

// withChunkTimeout derives the per-chunk deadline from ctx.
func (s *FileServiceImpl) withChunkTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.chunkTimeout())
}
