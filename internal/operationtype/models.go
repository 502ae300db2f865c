package operationtype

import (
	"strings"

	"clinica/pkg/domain"
	dErrors "clinica/pkg/domain-errors"
)

// OperationType is a catalog entry with an estimated base cost. Its identity
// is the code, not a surrogate id: saving an existing code replaces the
// entry's description and cost in place.
type OperationType struct {
	Code        domain.TypeCode `json:"code"`
	Description string          `json:"description"`
	BaseCost    domain.Money    `json:"base_cost"`
}

// New builds a catalog entry, normalizing the code.
func New(code string, description string, baseCost domain.Money) (*OperationType, error) {
	parsed, err := domain.ParseTypeCode(code)
	if err != nil {
		return nil, err
	}
	if baseCost.IsNegative() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "base cost cannot be negative")
	}
	return &OperationType{
		Code:        parsed,
		Description: strings.TrimSpace(description),
		BaseCost:    baseCost,
	}, nil
}
