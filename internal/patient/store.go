package patient

import (
	"context"

	"clinica/pkg/domain"
)

// Store is the patient repository contract. Save is insert-or-replace by id.
// FindByID reports sentinel.ErrNotFound for unknown ids. SearchByName matches
// a case-insensitive substring; ordering is implementation-defined but stable
// across calls.
type Store interface {
	Save(ctx context.Context, p *Patient) (*Patient, error)
	FindByID(ctx context.Context, id domain.PatientID) (*Patient, error)
	SearchByName(ctx context.Context, fragment string) ([]*Patient, error)
}
