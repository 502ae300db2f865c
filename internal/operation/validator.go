package operation

import (
	"clinica/pkg/domain"
	dErrors "clinica/pkg/domain-errors"
)

// Validator is a read-only check over a creation request. Rules must not
// depend on each other's side effects; new rules implement this one method and
// join the composite's list.
type Validator interface {
	Validate(req CreateRequest) error
}

// Composite runs an ordered list of validators, stopping at the first failure.
type Composite struct {
	rules []Validator
}

// NewComposite builds the default rule set for operation creation.
func NewComposite(extra ...Validator) *Composite {
	rules := []Validator{requiredFieldsRule{}, estimatedAmountRule{}}
	return &Composite{rules: append(rules, extra...)}
}

func (c *Composite) Validate(req CreateRequest) error {
	for _, rule := range c.rules {
		if err := rule.Validate(req); err != nil {
			return err
		}
	}
	return nil
}

// requiredFieldsRule rejects requests missing the fields every operation
// needs before any store is consulted.
type requiredFieldsRule struct{}

func (requiredFieldsRule) Validate(req CreateRequest) error {
	if req.PatientID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "patient id is required")
	}
	if req.Type.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "operation type is required")
	}
	if req.EstimatedCost.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "estimated cost cannot be negative")
	}
	return nil
}

// estimatedAmountRule checks cost consistency between the top-level estimate
// and the per-tooth breakdown. An empty breakdown places no constraint on the
// estimate.
type estimatedAmountRule struct{}

func (estimatedAmountRule) Validate(req CreateRequest) error {
	if len(req.Details) == 0 {
		return nil
	}

	sum := domain.Zero(req.EstimatedCost.Currency())
	for _, detail := range req.Details {
		var err error
		sum, err = sum.Add(detail.EstimatedCost)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, err.Error())
		}
	}

	if !sum.EqualRounded(req.EstimatedCost) {
		return dErrors.Newf(dErrors.CodeValidation,
			"estimated amount mismatch: details sum to %s but estimated cost is %s",
			sum.Round2(), req.EstimatedCost.Round2())
	}
	return nil
}
