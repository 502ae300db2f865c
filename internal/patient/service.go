package patient

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"clinica/internal/platform/metrics"
	"clinica/pkg/domain"
	dErrors "clinica/pkg/domain-errors"
	"clinica/pkg/platform/sentinel"
)

// Service orchestrates patient record use cases.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	newID   func() domain.PatientID
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithIDGenerator swaps the id source, for deterministic tests.
func WithIDGenerator(gen func() domain.PatientID) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService constructs a patient Service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, newID: domain.NewPatientID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates a fresh id, builds the record, and persists it. There is no
// uniqueness check beyond what the store enforces on id.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Patient, error) {
	p, err := New(s.newID(), req)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	saved, err := s.store.Save(ctx, p)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save patient")
	}

	s.logInfo(ctx, "patient created", "patient_id", saved.ID.String())
	if s.metrics != nil {
		s.metrics.PatientsCreated.Inc()
	}
	return saved, nil
}

// Get returns the patient or NotFound(Patient) carrying the id.
func (s *Service) Get(ctx context.Context, id domain.PatientID) (*Patient, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.NotFound("patient", id.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load patient")
	}
	return p, nil
}

// SearchByName returns patients whose name contains the fragment,
// case-insensitively. Ordering is the store's, stable across calls.
func (s *Service) SearchByName(ctx context.Context, fragment string) ([]*Patient, error) {
	fragment = strings.TrimSpace(fragment)
	results, err := s.store.SearchByName(ctx, fragment)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search patients")
	}
	return results, nil
}

// Require is the shared existence precondition: every entry point that takes a
// patientID re-checks it here rather than trusting earlier lookups.
func (s *Service) Require(ctx context.Context, id domain.PatientID) error {
	_, err := s.Get(ctx, id)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
