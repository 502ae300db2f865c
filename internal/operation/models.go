package operation

import (
	"io"
	"time"

	"clinica/pkg/domain"
)

// ToothType distinguishes permanent from deciduous dentition in a per-tooth
// cost breakdown.
type ToothType string

const (
	ToothPermanent ToothType = "PERMANENT"
	ToothDeciduous ToothType = "DECIDUOUS"
)

// ToothDetail is one line of the per-tooth cost breakdown.
type ToothDetail struct {
	Tooth         int          `json:"tooth"`
	EstimatedCost domain.Money `json:"estimated_cost"`
	Type          ToothType    `json:"type"`
}

// Note is a timestamped free-text annotation appended to an operation.
type Note struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// PatientOperation records a clinical operation performed on a patient.
//
// Invariant, enforced at creation time only: when Details is non-empty, the
// sum of detail costs rounded to 2 decimals equals EstimatedCost rounded the
// same way. Notes and asset keys are appended incrementally; everything else
// is immutable after creation.
type PatientOperation struct {
	ID            domain.OperationID `json:"id"`
	PatientID     domain.PatientID   `json:"patient_id"`
	Type          domain.TypeCode    `json:"type"`
	Description   string             `json:"description"`
	Executor      string             `json:"executor"`
	AssetKeys     []string           `json:"asset_keys"`
	Notes         []Note             `json:"notes"`
	EstimatedCost domain.Money       `json:"estimated_cost"`
	Details       []ToothDetail      `json:"details"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// CreateRequest carries the fields for a new operation.
type CreateRequest struct {
	PatientID     domain.PatientID `json:"patient_id"`
	Type          domain.TypeCode  `json:"type"`
	Description   string           `json:"description"`
	Executor      string           `json:"executor"`
	EstimatedCost domain.Money     `json:"estimated_cost"`
	Details       []ToothDetail    `json:"details"`
}

// AddAssetRequest describes an asset upload bound for an operation. The byte
// stream is consumed exactly once, by the storage collaborator.
type AddAssetRequest struct {
	Key           string
	ContentLength int64
	ContentType   string
	Body          io.Reader
}
