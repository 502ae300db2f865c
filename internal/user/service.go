package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"clinica/pkg/domain"
	dErrors "clinica/pkg/domain-errors"
	"clinica/pkg/platform/sentinel"
)

// Service is thin CRUD orchestration over the user store. No cross-entity
// validation happens here.
type Service struct {
	store  Store
	logger *slog.Logger
	newID  func() domain.UserID
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithIDGenerator swaps the id source, for deterministic tests.
func WithIDGenerator(gen func() domain.UserID) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService constructs a user Service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, newID: domain.NewUserID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates a fresh id, builds the record, and persists it.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	u, err := New(s.newID(), req)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	saved, err := s.store.Save(ctx, u)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save user")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "user created", "user_id", saved.ID.String())
	}
	return saved, nil
}

// Get returns the user or NotFound(User) carrying the id.
func (s *Service) Get(ctx context.Context, id domain.UserID) (*User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.NotFound("user", id.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return u, nil
}

// SearchByName delegates a case-insensitive substring match to the store.
func (s *Service) SearchByName(ctx context.Context, fragment string) ([]*User, error) {
	results, err := s.store.SearchByName(ctx, strings.TrimSpace(fragment))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search users")
	}
	return results, nil
}
