package patient

import (
	"strings"
	"time"

	"clinica/pkg/domain"
	dErrors "clinica/pkg/domain-errors"
	"clinica/pkg/email"
)

// Patient is a clinical record subject.
//
// Invariants:
//   - Name is non-empty
//   - Email is a valid, normalized address
//
// Mutation is full replacement only: there is no partial-update operation and
// patients are never deleted in this layer.
type Patient struct {
	ID             domain.PatientID `json:"id"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone,omitempty"`
	Address        string           `json:"address,omitempty"`
	City           string           `json:"city,omitempty"`
	Nationality    string           `json:"nationality,omitempty"`
	BirthDate      time.Time        `json:"birth_date"`
	TaxCode        string           `json:"tax_code"`
	MedicalHistory string           `json:"medical_history,omitempty"`
}

// CreateRequest carries the fields for a new patient record.
type CreateRequest struct {
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	Nationality    string    `json:"nationality"`
	BirthDate      time.Time `json:"birth_date"`
	TaxCode        string    `json:"tax_code"`
	MedicalHistory string    `json:"medical_history"`
}

// New builds a Patient from a creation request, enforcing constructor
// invariants.
func New(id domain.PatientID, req CreateRequest) (*Patient, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "patient name cannot be empty")
	}
	addr := email.Normalize(req.Email)
	if err := email.Validate(addr); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "patient email is invalid")
	}
	return &Patient{
		ID:             id,
		Name:           name,
		Email:          addr,
		Phone:          strings.TrimSpace(req.Phone),
		Address:        strings.TrimSpace(req.Address),
		City:           strings.TrimSpace(req.City),
		Nationality:    strings.TrimSpace(req.Nationality),
		BirthDate:      req.BirthDate,
		TaxCode:        strings.TrimSpace(req.TaxCode),
		MedicalHistory: req.MedicalHistory,
	}, nil
}
