package operation

import (
	"context"
	"sync"
	"time"

	"clinica/pkg/domain"
	"clinica/pkg/platform/sentinel"
)

// InMemoryStore keeps operations in process memory. Appends lock for the full
// read-modify-write, giving this adapter the atomicity the contract leaves to
// the store.
type InMemoryStore struct {
	mu         sync.RWMutex
	operations map[domain.OperationID]*PatientOperation
	order      []domain.OperationID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{operations: make(map[domain.OperationID]*PatientOperation)}
}

func (s *InMemoryStore) Save(_ context.Context, op *PatientOperation) (*PatientOperation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.operations[op.ID]; !exists {
		s.order = append(s.order, op.ID)
	}
	stored := cloneOperation(op)
	s.operations[op.ID] = stored
	return cloneOperation(stored), nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.OperationID) (*PatientOperation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.operations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneOperation(op), nil
}

func (s *InMemoryStore) FindByPatient(_ context.Context, patientID domain.PatientID) ([]*PatientOperation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*PatientOperation, 0)
	for _, id := range s.order {
		op := s.operations[id]
		if op.PatientID == patientID {
			results = append(results, cloneOperation(op))
		}
	}
	return results, nil
}

func (s *InMemoryStore) AppendNote(_ context.Context, id domain.OperationID, note Note) (*PatientOperation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.operations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	op.Notes = append(op.Notes, note)
	op.UpdatedAt = note.At
	return cloneOperation(op), nil
}

func (s *InMemoryStore) AppendAsset(_ context.Context, id domain.OperationID, key string, at time.Time) (*PatientOperation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.operations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	op.AssetKeys = append(op.AssetKeys, key)
	op.UpdatedAt = at
	return cloneOperation(op), nil
}

func cloneOperation(op *PatientOperation) *PatientOperation {
	out := *op
	out.AssetKeys = append([]string{}, op.AssetKeys...)
	out.Notes = append([]Note{}, op.Notes...)
	out.Details = append([]ToothDetail{}, op.Details...)
	return &out
}
