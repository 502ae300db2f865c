package operationtype

import (
	"context"
	"sort"
	"sync"

	"clinica/pkg/domain"
	"clinica/pkg/platform/sentinel"
)

// InMemoryStore keeps the catalog in process memory. The mutex covers the
// whole lookup-then-write of Upsert and Insert, so the two error paths stay
// distinct even under concurrent saves.
type InMemoryStore struct {
	mu    sync.RWMutex
	types map[domain.TypeCode]*OperationType
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{types: make(map[domain.TypeCode]*OperationType)}
}

func (s *InMemoryStore) Upsert(_ context.Context, ot *OperationType) (*OperationType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *ot
	s.types[ot.Code] = &stored
	out := stored
	return &out, nil
}

func (s *InMemoryStore) Insert(_ context.Context, ot *OperationType) (*OperationType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.types[ot.Code]; exists {
		return nil, sentinel.ErrAlreadyExists
	}
	stored := *ot
	s.types[ot.Code] = &stored
	out := stored
	return &out, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*OperationType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*OperationType, 0, len(s.types))
	for _, ot := range s.types {
		out := *ot
		results = append(results, &out)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Code < results[j].Code })
	return results, nil
}
