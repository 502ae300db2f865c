package assets

import (
	"bytes"
	"context"
	"io"
	"sync"

	"clinica/pkg/platform/sentinel"
)

// InMemoryStorage holds blobs in process memory, for tests and standalone
// development runs.
type InMemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{blobs: make(map[string][]byte)}
}

func (s *InMemoryStorage) Upload(_ context.Context, req UploadRequest) error {
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[req.Key] = data
	return nil
}

func (s *InMemoryStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Len reports the number of stored blobs; test helper.
func (s *InMemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Has reports whether a key has been uploaded; test helper.
func (s *InMemoryStorage) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[key]
	return ok
}
