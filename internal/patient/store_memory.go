package patient

import (
	"context"
	"strings"
	"sync"

	"clinica/pkg/domain"
	"clinica/pkg/platform/sentinel"
)

// InMemoryStore keeps patients in process memory. It backs tests and
// standalone development runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	patients map[domain.PatientID]*Patient
	order    []domain.PatientID // insertion order keeps SearchByName stable
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{patients: make(map[domain.PatientID]*Patient)}
}

func (s *InMemoryStore) Save(_ context.Context, p *Patient) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.patients[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	stored := *p
	s.patients[p.ID] = &stored
	out := stored
	return &out, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.PatientID) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (s *InMemoryStore) SearchByName(_ context.Context, fragment string) ([]*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(fragment)
	results := make([]*Patient, 0)
	for _, id := range s.order {
		p := s.patients[id]
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out := *p
			results = append(results, &out)
		}
	}
	return results, nil
}
