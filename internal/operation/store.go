package operation

import (
	"context"
	"time"

	"clinica/pkg/domain"
)

// Store is the operation repository contract. FindByID, AppendNote, and
// AppendAsset report sentinel.ErrNotFound for unknown ids; the append methods
// return the updated operation. FindByPatient lists in creation order.
type Store interface {
	Save(ctx context.Context, op *PatientOperation) (*PatientOperation, error)
	FindByID(ctx context.Context, id domain.OperationID) (*PatientOperation, error)
	FindByPatient(ctx context.Context, patientID domain.PatientID) ([]*PatientOperation, error)
	AppendNote(ctx context.Context, id domain.OperationID, note Note) (*PatientOperation, error)
	AppendAsset(ctx context.Context, id domain.OperationID, key string, at time.Time) (*PatientOperation, error)
}
