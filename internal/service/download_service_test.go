package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/anthanhphan/gridstore/internal/port"
	"github.com/anthanhphan/gridstore/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func uploadString(t *testing.T, svc *FileServiceImpl, name, contentType, body string) *domain.FileRecord {
	t.Helper()
	rec, err := svc.UploadFile(context.Background(), port.UploadRequest{
		FileName:    name,
		ContentType: contentType,
		Body:        strings.NewReader(body),
	})
	require.NoError(t, err)
	return rec
}

func TestDownloadService_UnknownName(t *testing.T) {
	svc := newMemService(t, testConfig(4), newMemStore())

	_, err := svc.GetFile(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = svc.StreamFile(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = svc.ReadFile(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownloadService_StreamImageRejectsOtherTypes(t *testing.T) {
	ctrl := gomock.NewController(t)
	chunks := mocks.NewMockChunkStore(ctrl)
	catalog := mocks.NewMockFileCatalog(ctrl)

	record := &domain.FileRecord{
		ID:          "1",
		DisplayName: "notes.txt",
		ContentType: "text/plain",
		Length:      5,
		ChunkSize:   4,
		ChunkCount:  2,
	}
	catalog.EXPECT().FindByName(gomock.Any(), "notes.txt").Return(record, nil)
	// No chunk is read for a rejected record.
	chunks.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	svc := NewFileService(testConfig(4), Dependencies{Chunks: chunks, Catalog: catalog})

	rec, stream, err := svc.StreamImage(context.Background(), "notes.txt")
	assert.ErrorIs(t, err, domain.ErrUnsupportedMedia)
	assert.Nil(t, rec)
	assert.Nil(t, stream)
}

func TestDownloadService_StreamImage(t *testing.T) {
	svc := newMemService(t, testConfig(4), newMemStore())
	rec := uploadString(t, svc, "pic.png", "image/png", "\x89PNG-fake-image")

	got, stream, err := svc.StreamImage(context.Background(), rec.DisplayName)
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, "image/png", got.ContentType)
	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG-fake-image", string(data))
}

func TestDownloadService_StreamIsLazy(t *testing.T) {
	ctrl := gomock.NewController(t)
	chunks := mocks.NewMockChunkStore(ctrl)
	catalog := mocks.NewMockFileCatalog(ctrl)

	record := &domain.FileRecord{ID: "7", DisplayName: "a", Length: 10, ChunkSize: 4, ChunkCount: 3}
	catalog.EXPECT().FindByName(gomock.Any(), "a").Return(record, nil)

	svc := NewFileService(testConfig(4), Dependencies{Chunks: chunks, Catalog: catalog})

	_, stream, err := svc.StreamFile(context.Background(), "a")
	require.NoError(t, err)

	// Only the first chunk is fetched before the consumer stops.
	chunks.EXPECT().Get(gomock.Any(), "7", 0).Return([]byte("0123"), nil)

	first, err := stream.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("0123"), first)
	require.NoError(t, stream.Close())

	_, err = stream.Next(context.Background())
	assert.Error(t, err)
}

func TestDownloadService_CorruptStream(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(store *memStore, fileID string)
	}{
		{
			name:    "MissingMiddleChunk",
			corrupt: func(store *memStore, fileID string) { store.corrupt(fileID, 1, nil) },
		},
		{
			name:    "ShortChunk",
			corrupt: func(store *memStore, fileID string) { store.corrupt(fileID, 1, []byte("xy")) },
		},
		{
			name:    "OversizedTail",
			corrupt: func(store *memStore, fileID string) { store.corrupt(fileID, 2, []byte("xyz")) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			svc := newMemService(t, testConfig(4), store)
			rec := uploadString(t, svc, "doc.txt", "text/plain", "0123456789")
			tt.corrupt(store, rec.ID)

			_, stream, err := svc.StreamFile(context.Background(), rec.DisplayName)
			require.NoError(t, err)
			defer stream.Close()

			first, err := stream.Next(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []byte("0123"), first)

			var streamErr error
			for streamErr == nil {
				_, streamErr = stream.Next(context.Background())
			}
			assert.ErrorIs(t, streamErr, domain.ErrCorruptStream)
			assert.False(t, errors.Is(streamErr, io.EOF))

			_, _, err = svc.ReadFile(context.Background(), rec.DisplayName)
			assert.ErrorIs(t, err, domain.ErrCorruptStream)
		})
	}
}

func TestDownloadService_StorageErrorIsCorruptStream(t *testing.T) {
	ctrl := gomock.NewController(t)
	chunks := mocks.NewMockChunkStore(ctrl)
	catalog := mocks.NewMockFileCatalog(ctrl)

	record := &domain.FileRecord{ID: "9", DisplayName: "b", Length: 4, ChunkSize: 4, ChunkCount: 1}
	catalog.EXPECT().FindByName(gomock.Any(), "b").Return(record, nil)
	chunks.EXPECT().Get(gomock.Any(), "9", 0).Return(nil, domain.NewStorageError("get chunk", errors.New("io timeout")))

	svc := NewFileService(testConfig(4), Dependencies{Chunks: chunks, Catalog: catalog})

	_, stream, err := svc.StreamFile(context.Background(), "b")
	require.NoError(t, err)

	_, err = stream.Next(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorruptStream)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestDownloadService_CanceledConsumer(t *testing.T) {
	svc := newMemService(t, testConfig(4), newMemStore())
	rec := uploadString(t, svc, "doc.txt", "text/plain", "0123456789")

	ctx, cancel := context.WithCancel(context.Background())
	_, stream, err := svc.StreamFile(ctx, rec.DisplayName)
	require.NoError(t, err)
	defer stream.Close()

	_, err = stream.Next(ctx)
	require.NoError(t, err)

	cancel()
	_, err = stream.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrCorruptStream)
}

func TestDownloadService_OpenByID(t *testing.T) {
	svc := newMemService(t, testConfig(4), newMemStore())
	rec := uploadString(t, svc, "doc.txt", "text/plain", "hello world")

	got, stream, err := svc.OpenByID(context.Background(), rec.ID)
	require.NoError(t, err)
	defer stream.Close()
	assert.Equal(t, rec.DisplayName, got.DisplayName)

	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	_, _, err = svc.OpenByID(context.Background(), "404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMetadataService_ListFilesOrdered(t *testing.T) {
	store := newMemStore()
	svc := newMemService(t, testConfig(4), store)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	step := 0
	svc.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	first := uploadString(t, svc, "a.txt", "text/plain", "a")
	second := uploadString(t, svc, "b.txt", "text/plain", "b")
	third := uploadString(t, svc, "c.txt", "text/plain", "c")

	files, err := svc.ListFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, first.ID, files[0].ID)
	assert.Equal(t, second.ID, files[1].ID)
	assert.Equal(t, third.ID, files[2].ID)
}
