package invoice

import (
	"context"
	"time"

	"clinica/pkg/domain"
)

// Store is the invoice repository contract. FindByID and UpdateStatus report
// sentinel.ErrNotFound for unknown ids; FindByOperation returns an empty list
// for unknown operations.
type Store interface {
	Save(ctx context.Context, inv *Invoice) (*Invoice, error)
	FindByID(ctx context.Context, id domain.InvoiceID) (*Invoice, error)
	FindByOperation(ctx context.Context, operationID domain.OperationID) ([]*Invoice, error)
	UpdateStatus(ctx context.Context, id domain.InvoiceID, status Status, at time.Time) (*Invoice, error)
}
