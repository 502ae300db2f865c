package operationtype

import (
	"context"
	"errors"
	"log/slog"

	"clinica/internal/platform/metrics"
	dErrors "clinica/pkg/domain-errors"
	"clinica/pkg/platform/sentinel"
)

// Service orchestrates the operation-type catalog.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs a catalog Service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save upserts by type code: an absent code inserts, a present code has its
// description and cost replaced. Callers needing insert-only semantics use
// Register instead.
func (s *Service) Save(ctx context.Context, ot *OperationType) (*OperationType, error) {
	saved, err := s.store.Upsert(ctx, ot)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save operation type")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "operation type saved", "code", saved.Code.String())
	}
	if s.metrics != nil {
		s.metrics.CatalogUpserts.Inc()
	}
	return saved, nil
}

// Register inserts a new catalog entry, failing with
// AlreadyExists(OperationType) when the code is taken.
func (s *Service) Register(ctx context.Context, ot *OperationType) (*OperationType, error) {
	saved, err := s.store.Insert(ctx, ot)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return nil, dErrors.AlreadyExists("operation type", ot.Code.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register operation type")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "operation type registered", "code", saved.Code.String())
	}
	if s.metrics != nil {
		s.metrics.CatalogUpserts.Inc()
	}
	return saved, nil
}

// List returns every catalog entry ordered by type code ascending.
func (s *Service) List(ctx context.Context) ([]*OperationType, error) {
	types, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list operation types")
	}
	return types, nil
}
