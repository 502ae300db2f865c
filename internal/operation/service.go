package operation

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"clinica/internal/assets"
	"clinica/internal/platform/metrics"
	"clinica/pkg/domain"
	dErrors "clinica/pkg/domain-errors"
	"clinica/pkg/platform/sentinel"
	"clinica/pkg/requestcontext"
)

// PatientDirectory is the slice of the patient service this context needs:
// the shared existence precondition.
type PatientDirectory interface {
	Require(ctx context.Context, id domain.PatientID) error
}

// Service orchestrates operation use cases: validated creation, retrieval,
// and incremental note/asset appends.
type Service struct {
	store     Store
	patients  PatientDirectory
	storage   assets.Storage
	validator Validator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	newID     func() domain.OperationID
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithValidator replaces the default rule set.
func WithValidator(v Validator) Option {
	return func(s *Service) { s.validator = v }
}

// WithIDGenerator swaps the id source, for deterministic tests.
func WithIDGenerator(gen func() domain.OperationID) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService constructs an operation Service.
func NewService(store Store, patients PatientDirectory, storage assets.Storage, opts ...Option) *Service {
	s := &Service{
		store:     store,
		patients:  patients,
		storage:   storage,
		validator: NewComposite(),
		newID:     domain.NewOperationID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the request, re-checks that the patient exists, and
// persists a new operation. Validation happens before any store access, so a
// failing request leaves nothing behind. Creation and last-update timestamps
// come from a single clock read.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*PatientOperation, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.patients.Require(ctx, req.PatientID); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	op := &PatientOperation{
		ID:            s.newID(),
		PatientID:     req.PatientID,
		Type:          req.Type,
		Description:   req.Description,
		Executor:      req.Executor,
		AssetKeys:     []string{},
		Notes:         []Note{},
		EstimatedCost: req.EstimatedCost,
		Details:       req.Details,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	saved, err := s.store.Save(ctx, op)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save operation")
	}

	s.logInfo(ctx, "operation created",
		"operation_id", saved.ID.String(),
		"patient_id", saved.PatientID.String(),
		"type", saved.Type.String())
	if s.metrics != nil {
		s.metrics.OperationsCreated.Inc()
	}
	return saved, nil
}

// Get returns the operation or NotFound(Operation) carrying the id.
func (s *Service) Get(ctx context.Context, id domain.OperationID) (*PatientOperation, error) {
	op, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.NotFound("operation", id.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load operation")
	}
	return op, nil
}

// Require is the existence precondition other contexts (invoicing) depend on.
func (s *Service) Require(ctx context.Context, id domain.OperationID) error {
	_, err := s.Get(ctx, id)
	return err
}

// ListByPatient lists a patient's operations. Patient existence is re-checked
// at this entry point even when a caller has already resolved the patient.
func (s *Service) ListByPatient(ctx context.Context, patientID domain.PatientID) ([]*PatientOperation, error) {
	if err := s.patients.Require(ctx, patientID); err != nil {
		return nil, err
	}
	ops, err := s.store.FindByPatient(ctx, patientID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list operations")
	}
	return ops, nil
}

// AddNote appends a timestamped note to an operation.
func (s *Service) AddNote(ctx context.Context, id domain.OperationID, text string) (*PatientOperation, error) {
	if text == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "note text cannot be empty")
	}
	note := Note{Text: text, At: requestcontext.Now(ctx)}
	op, err := s.store.AppendNote(ctx, id, note)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.NotFound("operation", id.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append note")
	}
	s.logInfo(ctx, "note added", "operation_id", id.String())
	return op, nil
}

// AddAsset uploads the byte stream to object storage and then appends the key
// to the operation's asset list. The two steps are not atomic: when the
// metadata append finds no such operation, the uploaded blob stays behind.
// That at-least-once upload is accepted rather than rolled back.
func (s *Service) AddAsset(ctx context.Context, id domain.OperationID, req AddAssetRequest) (*PatientOperation, error) {
	if req.Key == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "asset key cannot be empty")
	}

	err := s.storage.Upload(ctx, assets.UploadRequest{
		Key:           req.Key,
		ContentLength: req.ContentLength,
		ContentType:   req.ContentType,
		Body:          req.Body,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to upload asset")
	}
	if s.metrics != nil {
		s.metrics.AssetsUploaded.Inc()
	}

	op, err := s.store.AppendAsset(ctx, id, req.Key, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logInfo(ctx, "asset uploaded for unknown operation",
				"operation_id", id.String(), "asset_key", req.Key)
			return nil, dErrors.NotFound("operation", id.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append asset key")
	}
	s.logInfo(ctx, "asset added", "operation_id", id.String(), "asset_key", req.Key)
	return op, nil
}

// GetAsset streams a previously uploaded asset back from object storage.
func (s *Service) GetAsset(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.storage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.NotFound("asset", key)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch asset")
	}
	return rc, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
