package service

import (
	"context"
	"sort"
	"sync"

	"github.com/anthanhphan/gridstore/internal/domain"
)

// memStore is an in-memory ChunkStore and FileCatalog for service tests.
type memStore struct {
	mu      sync.Mutex
	chunks  map[string]map[int][]byte
	records map[string]*domain.FileRecord
	names   map[string]string

	// failPutAt makes Put fail once the given index is reached. Negative disables it.
	failPutAt int
	putErr    error
	// createErr is returned by Create after the record was stored.
	createErr error
	deleted   chan string
}

func newMemStore() *memStore {
	return &memStore{
		chunks:    make(map[string]map[int][]byte),
		records:   make(map[string]*domain.FileRecord),
		names:     make(map[string]string),
		failPutAt: -1,
		deleted:   make(chan string, 16),
	}
}

func (m *memStore) Put(ctx context.Context, fileID string, index int, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failPutAt >= 0 && index >= m.failPutAt {
		return m.putErr
	}
	if m.chunks[fileID] == nil {
		m.chunks[fileID] = make(map[int][]byte)
	}
	m.chunks[fileID][index] = append([]byte(nil), data...)
	return nil
}

func (m *memStore) Get(_ context.Context, fileID string, index int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.chunks[fileID][index]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (m *memStore) List(_ context.Context, fileID string) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	indices := make([]int, 0, len(m.chunks[fileID]))
	for idx := range m.chunks[fileID] {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices, nil
}

func (m *memStore) FileIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.chunks))
	for id := range m.chunks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memStore) DeleteFile(_ context.Context, fileID string) (int, error) {
	m.mu.Lock()
	n := len(m.chunks[fileID])
	delete(m.chunks, fileID)
	m.mu.Unlock()

	select {
	case m.deleted <- fileID:
	default:
	}
	return n, nil
}

func (m *memStore) Create(_ context.Context, record *domain.FileRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.names[record.DisplayName]; taken {
		return "", domain.ErrNameTaken
	}
	cp := *record
	m.records[record.ID] = &cp
	m.names[record.DisplayName] = record.ID
	if m.createErr != nil {
		return "", m.createErr
	}
	return record.ID, nil
}

func (m *memStore) FindByName(_ context.Context, displayName string) (*domain.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.names[displayName]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m.records[id]
	return &cp, nil
}

func (m *memStore) FindByID(_ context.Context, fileID string) (*domain.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[fileID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memStore) ListAll(_ context.Context) ([]*domain.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.FileRecord, 0, len(m.records))
	for _, rec := range m.records {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memStore) chunkCount(fileID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chunks[fileID])
}

func (m *memStore) corrupt(fileID string, index int, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if data == nil {
		delete(m.chunks[fileID], index)
		return
	}
	m.chunks[fileID][index] = data
}
