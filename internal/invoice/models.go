package invoice

import (
	"time"

	"clinica/pkg/domain"
	dErrors "clinica/pkg/domain-errors"
)

// Status is the invoice lifecycle state. No transition guard exists in this
// layer: any status may be set to any other.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus validates a status value from a trust boundary.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusCancelled:
		return Status(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown invoice status %q", s)
}

// Invoice bills an operation. Every invoice starts PENDING; status moves only
// through UpdateStatus, which stamps UpdatedAt.
type Invoice struct {
	ID          domain.InvoiceID   `json:"id"`
	OperationID domain.OperationID `json:"operation_id"`
	Amount      domain.Money       `json:"amount"`
	Status      Status             `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// CreateRequest carries the fields for a new invoice. Status is not a field:
// creation always yields PENDING.
type CreateRequest struct {
	OperationID domain.OperationID `json:"operation_id"`
	Amount      domain.Money       `json:"amount"`
}
