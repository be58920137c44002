package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/anthanhphan/gridstore/internal/port"
	"github.com/anthanhphan/gosdk/logger"
)

// downloadService reconstructs file content from stored chunks.
type downloadService struct {
	core     *FileServiceImpl
	metadata *metadataService
}

// recordCheck rejects records a caller is not allowed to stream.
type recordCheck func(record *domain.FileRecord) error

// newDownloadService creates the download use-case service.
func newDownloadService(core *FileServiceImpl, metadata *metadataService) *downloadService {
	return &downloadService{core: core, metadata: metadata}
}

// requireImage only admits records that can be shown inline.
func requireImage(record *domain.FileRecord) error {
	if !domain.IsDisplayableImage(record.ContentType) {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, record.ContentType)
	}
	return nil
}

// open resolves the record and returns a stream over its chunks.
// No chunk is read before check has passed.
func (s *downloadService) open(ctx context.Context, displayName string, check recordCheck) (*domain.FileRecord, port.FileStream, error) {
	record, err := s.metadata.findByName(ctx, displayName)
	if err != nil {
		return nil, nil, err
	}
	if check != nil {
		if err := check(record); err != nil {
			return nil, nil, err
		}
	}

	logger.Infow("Stream opened", "file_id", record.ID, "display_name", record.DisplayName, "chunks", record.ChunkCount)
	return record, s.newStream(ctx, record), nil
}

// readAll drains the whole file into memory.
func (s *downloadService) readAll(ctx context.Context, displayName string) (*domain.FileRecord, []byte, error) {
	record, stream, err := s.open(ctx, displayName, nil)
	if err != nil {
		return nil, nil, err
	}
	defer stream.Close()

	var buf bytes.Buffer
	buf.Grow(int(record.Length))
	for {
		chunk, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		buf.Write(chunk)
	}
	return record, buf.Bytes(), nil
}

// newStream builds a lazy chunk stream for record.
// ctx bounds the stream when it is consumed through io.Reader.
func (s *downloadService) newStream(ctx context.Context, record *domain.FileRecord) *chunkStream {
	return &chunkStream{
		ctx:     ctx,
		record:  record,
		chunks:  s.core.chunks,
		timeout: s.core.withChunkTimeout,
		onDone:  s.core.metrics.StreamFinished,
	}
}

// chunkStream yields the chunks of one file in index order, fetching each on demand.
type chunkStream struct {
	ctx     context.Context
	record  *domain.FileRecord
	chunks  port.ChunkStore
	timeout func(context.Context) (context.Context, context.CancelFunc)
	onDone  func(result string, served int64)

	mu      sync.Mutex
	next    int
	served  int64
	pending []byte
	err     error
	closed  bool
}

var _ port.FileStream = (*chunkStream)(nil)

// Next returns the next chunk payload or io.EOF after the last one.
func (c *chunkStream) Next(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextLocked(ctx)
}

func (c *chunkStream) nextLocked(ctx context.Context) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.closed {
		return nil, io.ErrClosedPipe
	}
	if c.next >= c.record.ChunkCount {
		c.finishLocked("ok", io.EOF)
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		c.finishLocked("canceled", err)
		return nil, err
	}

	index := c.next
	data, err := c.fetch(ctx, index)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.finishLocked("canceled", ctxErr)
			return nil, ctxErr
		}
		logger.Errorw("Stream chunk unreadable", "file_id", c.record.ID, "chunk", index, "error", err.Error())
		c.finishLocked("corrupt", fmt.Errorf("%w: chunk %d: %w", domain.ErrCorruptStream, index, err))
		return nil, c.err
	}

	c.next++
	c.served += int64(len(data))
	return data, nil
}

// fetch loads one chunk and checks its length against the record.
func (c *chunkStream) fetch(ctx context.Context, index int) ([]byte, error) {
	opCtx, cancel := c.timeout(ctx)
	defer cancel()

	data, err := c.chunks.Get(opCtx, c.record.ID, index)
	if err != nil {
		return nil, err
	}
	if want := c.record.ExpectedChunkLen(index); int64(len(data)) != want {
		return nil, fmt.Errorf("length %d, expected %d", len(data), want)
	}
	return data, nil
}

// Read implements io.Reader over the chunk sequence.
func (c *chunkStream) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.pending) == 0 {
		data, err := c.nextLocked(c.ctx)
		if err != nil {
			return 0, err
		}
		c.pending = data
	}

	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

// Close stops the stream. Further reads fail.
func (c *chunkStream) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed && c.err == nil {
		c.report("abandoned")
	}
	c.closed = true
	c.pending = nil
	return nil
}

// finishLocked records the terminal state of the stream once.
func (c *chunkStream) finishLocked(result string, err error) {
	if c.err != nil {
		return
	}
	c.err = err
	c.report(result)
}

func (c *chunkStream) report(result string) {
	if c.onDone != nil {
		c.onDone(result, c.served)
	}
}
