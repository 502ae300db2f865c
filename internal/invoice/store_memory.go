package invoice

import (
	"context"
	"sync"
	"time"

	"clinica/pkg/domain"
	"clinica/pkg/platform/sentinel"
)

// InMemoryStore keeps invoices in process memory.
type InMemoryStore struct {
	mu       sync.RWMutex
	invoices map[domain.InvoiceID]*Invoice
	order    []domain.InvoiceID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{invoices: make(map[domain.InvoiceID]*Invoice)}
}

func (s *InMemoryStore) Save(_ context.Context, inv *Invoice) (*Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.invoices[inv.ID]; !exists {
		s.order = append(s.order, inv.ID)
	}
	stored := *inv
	s.invoices[inv.ID] = &stored
	out := stored
	return &out, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.InvoiceID) (*Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *inv
	return &out, nil
}

func (s *InMemoryStore) FindByOperation(_ context.Context, operationID domain.OperationID) ([]*Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*Invoice, 0)
	for _, id := range s.order {
		inv := s.invoices[id]
		if inv.OperationID == operationID {
			out := *inv
			results = append(results, &out)
		}
	}
	return results, nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, id domain.InvoiceID, status Status, at time.Time) (*Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = at
	out := *inv
	return &out, nil
}
