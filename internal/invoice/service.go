package invoice

import (
	"context"
	"errors"
	"log/slog"

	"clinica/internal/platform/metrics"
	"clinica/pkg/domain"
	dErrors "clinica/pkg/domain-errors"
	"clinica/pkg/platform/sentinel"
	"clinica/pkg/requestcontext"
)

// OperationDirectory is the slice of the operation service this context
// needs: the existence check guarding invoice creation. Require returns the
// domain NotFound error when the id does not resolve.
type OperationDirectory interface {
	Require(ctx context.Context, id domain.OperationID) error
}

// Service orchestrates invoice use cases.
type Service struct {
	store      Store
	operations OperationDirectory
	logger     *slog.Logger
	metrics    *metrics.Metrics
	newID      func() domain.InvoiceID
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithIDGenerator swaps the id source, for deterministic tests.
func WithIDGenerator(gen func() domain.InvoiceID) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService constructs an invoice Service.
func NewService(store Store, operations OperationDirectory, opts ...Option) *Service {
	s := &Service{store: store, operations: operations, newID: domain.NewInvoiceID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create bills an existing operation. The referenced operation must resolve;
// status is always PENDING and both timestamps come from one clock read.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Invoice, error) {
	if req.Amount.IsNegative() {
		return nil, dErrors.New(dErrors.CodeValidation, "invoice amount cannot be negative")
	}
	if err := s.operations.Require(ctx, req.OperationID); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	inv := &Invoice{
		ID:          s.newID(),
		OperationID: req.OperationID,
		Amount:      req.Amount,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	saved, err := s.store.Save(ctx, inv)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save invoice")
	}

	s.logInfo(ctx, "invoice created",
		"invoice_id", saved.ID.String(),
		"operation_id", saved.OperationID.String())
	if s.metrics != nil {
		s.metrics.InvoicesCreated.Inc()
	}
	return saved, nil
}

// Get returns the invoice or NotFound(Invoice) carrying the id.
func (s *Service) Get(ctx context.Context, id domain.InvoiceID) (*Invoice, error) {
	inv, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.NotFound("invoice", id.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load invoice")
	}
	return inv, nil
}

// UpdateStatus sets the status unconditionally: no state machine prevents
// PAID moving back to PENDING.
func (s *Service) UpdateStatus(ctx context.Context, id domain.InvoiceID, status Status) (*Invoice, error) {
	inv, err := s.store.UpdateStatus(ctx, id, status, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.NotFound("invoice", id.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update invoice status")
	}
	s.logInfo(ctx, "invoice status updated",
		"invoice_id", id.String(), "status", string(status))
	return inv, nil
}

// ListByOperation lists invoices billed for an operation. Unlike the
// operation service's patient checks, the operation's existence is NOT
// verified here: an unknown operation yields an empty list.
func (s *Service) ListByOperation(ctx context.Context, operationID domain.OperationID) ([]*Invoice, error) {
	invoices, err := s.store.FindByOperation(ctx, operationID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list invoices")
	}
	return invoices, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
