package user

import (
	"context"
	"strings"
	"sync"

	"clinica/pkg/domain"
	"clinica/pkg/platform/sentinel"
)

// InMemoryStore keeps users in process memory.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[domain.UserID]*User
	order []domain.UserID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[domain.UserID]*User)}
}

func (s *InMemoryStore) Save(_ context.Context, u *User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[u.ID]; !exists {
		s.order = append(s.order, u.ID)
	}
	stored := *u
	s.users[u.ID] = &stored
	out := stored
	return &out, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.UserID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *InMemoryStore) SearchByName(_ context.Context, fragment string) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(fragment)
	results := make([]*User, 0)
	for _, id := range s.order {
		u := s.users[id]
		if strings.Contains(strings.ToLower(u.Name), needle) {
			out := *u
			results = append(results, &out)
		}
	}
	return results, nil
}
