package user

import (
	"strings"
	"time"

	"clinica/pkg/domain"
	dErrors "clinica/pkg/domain-errors"
	"clinica/pkg/email"
)

// User is a practice staff record. Structurally close to a patient but a
// distinct entity with its own store: the two serve different bounded
// contexts and are deliberately not unified.
type User struct {
	ID        domain.UserID `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	Address   string        `json:"address,omitempty"`
	BirthDate time.Time     `json:"birth_date"`
}

// CreateRequest carries the fields for a new user record.
type CreateRequest struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	BirthDate time.Time `json:"birth_date"`
}

// New builds a User, enforcing constructor invariants.
func New(id domain.UserID, req CreateRequest) (*User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user name cannot be empty")
	}
	addr := email.Normalize(req.Email)
	if err := email.Validate(addr); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "user email is invalid")
	}
	return &User{
		ID:        id,
		Name:      name,
		Email:     addr,
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		BirthDate: req.BirthDate,
	}, nil
}
