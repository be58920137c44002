package http_handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/anthanhphan/gridstore/internal/adapter/outbound/badgerstore"
	"github.com/anthanhphan/gridstore/internal/config"
	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/anthanhphan/gridstore/internal/metrics"
	"github.com/anthanhphan/gridstore/internal/service"
	"github.com/anthanhphan/gridstore/internal/service/mocks"
	"github.com/anthanhphan/gridstore/pkg/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.App.ChunkSize = 8
	return cfg
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := badgerstore.New(badgerstore.Options{Dir: badgerstore.MemoryDir})
	require.NoError(t, store.Open(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	gen, err := idgen.New(1, nil)
	require.NoError(t, err)

	m := metrics.New()
	svc := service.NewFileService(testConfig(), service.Dependencies{
		Chunks:  store,
		Catalog: store,
		Store:   store,
		IDGen:   gen,
		Metrics: m,
	})
	t.Cleanup(svc.Close)

	return NewServer(testConfig(), svc, m.Registry)
}

func newMockServer(t *testing.T) (*Server, *mocks.MockChunkStore, *mocks.MockFileCatalog) {
	t.Helper()

	ctrl := gomock.NewController(t)
	chunks := mocks.NewMockChunkStore(ctrl)
	catalog := mocks.NewMockFileCatalog(ctrl)
	gen, err := idgen.New(1, nil)
	require.NoError(t, err)

	svc := service.NewFileService(testConfig(), service.Dependencies{Chunks: chunks, Catalog: catalog, IDGen: gen})
	t.Cleanup(svc.Close)
	return NewServer(testConfig(), svc, nil), chunks, catalog
}

func uploadRequest(t *testing.T, field, fileName, contentType string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("note", "ignored"))

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func doRequest(t *testing.T, s *Server, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func errBody(t *testing.T, body []byte) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload["err"]
}

// uploadAndFind uploads content and returns its stored record.
func uploadAndFind(t *testing.T, s *Server, fileName, contentType string, content []byte) domain.FileRecord {
	t.Helper()

	resp, _ := doRequest(t, s, uploadRequest(t, "file", fileName, contentType, content))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	_, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/files", nil))
	var files []domain.FileRecord
	require.NoError(t, json.Unmarshal(body, &files))
	for _, f := range files {
		if f.OriginalName == fileName {
			return f
		}
	}
	t.Fatalf("uploaded file %s not listed", fileName)
	return domain.FileRecord{}
}

func TestServer_ListFilesEmpty(t *testing.T) {
	s := newTestServer(t)

	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/files", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No files exist", errBody(t, body))
}

func TestServer_GetUnknownFile(t *testing.T) {
	s := newTestServer(t)

	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/files/nothing.txt", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No file exist", errBody(t, body))

	resp, body = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/image/nothing.png", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No file exist", errBody(t, body))
}

func TestServer_UploadAndRead(t *testing.T) {
	s := newTestServer(t)
	content := []byte("hello chunked world, spanning several chunks")

	rec := uploadAndFind(t, s, "hello.txt", "text/plain", content)
	assert.Equal(t, "text/plain", rec.ContentType)
	assert.Equal(t, int64(len(content)), rec.Length)
	assert.Equal(t, int64(8), rec.ChunkSize)
	assert.Equal(t, domain.ChunkCountFor(rec.Length, 8), rec.ChunkCount)
	assert.True(t, strings.HasSuffix(rec.DisplayName, ".txt"))

	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/files/"+rec.DisplayName, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, rec.ID, got["_id"])
	assert.Equal(t, rec.DisplayName, got["filename"])
	assert.Contains(t, got, "uploadDate")
	assert.NotContains(t, got, "content")

	resp, body = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/files/"+rec.DisplayName+"?content=true", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var withContent struct {
		Filename string `json:"filename"`
		Content  string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(body, &withContent))
	assert.Equal(t, rec.DisplayName, withContent.Filename)
	decoded, err := base64.StdEncoding.DecodeString(withContent.Content)
	require.NoError(t, err)
	assert.Equal(t, content, decoded)

	resp, body = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/download/"+rec.DisplayName, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, content, body)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "hello.txt")
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
}

func TestServer_ImageRoute(t *testing.T) {
	s := newTestServer(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0x42}, 30)...)

	rec := uploadAndFind(t, s, "pic.png", "image/png", png)

	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/image/"+rec.DisplayName, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, png, body)

	resp, body = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "/image/"+rec.DisplayName)
}

func TestServer_ImageRouteRejectsText(t *testing.T) {
	s, chunks, catalog := newMockServer(t)

	catalog.EXPECT().FindByName(gomock.Any(), "notes.txt").Return(&domain.FileRecord{
		ID: "1", DisplayName: "notes.txt", ContentType: "text/plain",
		Length: 4, ChunkSize: 8, ChunkCount: 1,
	}, nil)
	chunks.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/image/notes.txt", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not an image", errBody(t, body))
}

func TestServer_UploadRejectsBadRequests(t *testing.T) {
	s := newTestServer(t)

	resp, body := doRequest(t, s, uploadRequest(t, "attachment", "a.txt", "text/plain", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, errBody(t, body))

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("raw"))
	req.Header.Set("Content-Type", "text/plain")
	resp, _ = doRequest(t, s, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_StorageErrors(t *testing.T) {
	s, _, catalog := newMockServer(t)

	catalog.EXPECT().ListAll(gomock.Any()).Return(nil, domain.NewStorageError("list records", errors.New("disk gone")))
	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/files", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to list files", errBody(t, body))

	catalog.EXPECT().FindByName(gomock.Any(), "a").Return(nil, domain.NewStorageError("find record", domain.ErrNotReady))
	resp, body = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/files/a", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "Store unavailable", errBody(t, body))
}

func TestServer_UploadStorageFailureHidesDetail(t *testing.T) {
	s, chunks, _ := newMockServer(t)

	chunks.EXPECT().Put(gomock.Any(), gomock.Any(), 0, gomock.Any()).
		Return(domain.NewStorageError("put chunk", errors.New("dial tcp 10.0.0.7:6379: connection refused")))
	chunks.EXPECT().DeleteFile(gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()

	resp, body := doRequest(t, s, uploadRequest(t, "file", "a.txt", "text/plain", []byte("hello")))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	msg := errBody(t, body)
	assert.Equal(t, "Upload failed", msg)
	assert.NotContains(t, msg, "put chunk")
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	resp, _ := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	uploadAndFind(t, s, "m.bin", "application/octet-stream", []byte("metrics"))

	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "gridstore_uploads_total")
}

func TestServer_HealthUnavailable(t *testing.T) {
	store := badgerstore.New(badgerstore.Options{Dir: badgerstore.MemoryDir})
	svc := service.NewFileService(testConfig(), service.Dependencies{Chunks: store, Catalog: store, Store: store})
	s := NewServer(testConfig(), svc, nil)

	resp, _ := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/files", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
