// Package domain holds the value objects shared across bounded contexts:
// typed identifiers, the operation-type natural key, and Money.
//
// Identifiers are distinct types over uuid.UUID so a PatientID can never be
// passed where an OperationID is expected. Parsing enforces the invariant
// "IDs are valid, non-empty, non-nil UUIDs" at trust boundaries.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "clinica/pkg/domain-errors"
)

type (
	// PatientID identifies a patient record.
	PatientID uuid.UUID
	// OperationID identifies an operation performed on a patient.
	OperationID uuid.UUID
	// InvoiceID identifies an invoice billed for an operation.
	InvoiceID uuid.UUID
	// UserID identifies a practice staff member.
	UserID uuid.UUID
)

func (id PatientID) String() string   { return uuid.UUID(id).String() }
func (id OperationID) String() string { return uuid.UUID(id).String() }
func (id InvoiceID) String() string   { return uuid.UUID(id).String() }
func (id UserID) String() string      { return uuid.UUID(id).String() }

func (id PatientID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id OperationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id InvoiceID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

// Defined types do not inherit uuid.UUID's text marshalling, so each id type
// restates it; without these, JSON would encode ids as 16-byte arrays.

func (id PatientID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id OperationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id InvoiceID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id UserID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }

func (id *PatientID) UnmarshalText(text []byte) error {
	parsed, err := ParsePatientID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *OperationID) UnmarshalText(text []byte) error {
	parsed, err := ParseOperationID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *InvoiceID) UnmarshalText(text []byte) error {
	parsed, err := ParseInvoiceID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := ParseUserID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NewPatientID allocates a fresh random patient identifier.
func NewPatientID() PatientID { return PatientID(uuid.New()) }

// NewOperationID allocates a fresh random operation identifier.
func NewOperationID() OperationID { return OperationID(uuid.New()) }

// NewInvoiceID allocates a fresh random invoice identifier.
func NewInvoiceID() InvoiceID { return InvoiceID(uuid.New()) }

// NewUserID allocates a fresh random user identifier.
func NewUserID() UserID { return UserID(uuid.New()) }

// ParsePatientID validates and returns a PatientID.
func ParsePatientID(s string) (PatientID, error) {
	u, err := parseUUID(s)
	return PatientID(u), err
}

// ParseOperationID validates and returns an OperationID.
func ParseOperationID(s string) (OperationID, error) {
	u, err := parseUUID(s)
	return OperationID(u), err
}

// ParseInvoiceID validates and returns an InvoiceID.
func ParseInvoiceID(s string) (InvoiceID, error) {
	u, err := parseUUID(s)
	return InvoiceID(u), err
}

// ParseUserID validates and returns a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	return UserID(u), err
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}

// TypeCode is the natural key of an operation-type catalog entry, e.g.
// "SURGERY". Unlike the uuid identifiers it is business-meaningful: saving a
// type under an existing code replaces that entry.
type TypeCode string

// ParseTypeCode normalizes and validates a catalog code. Codes are stored
// upper-case so lookups and the lexicographic listing order are unambiguous.
func ParseTypeCode(s string) (TypeCode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "type code is required")
	}
	return TypeCode(s), nil
}

func (c TypeCode) String() string { return string(c) }

func (c TypeCode) IsNil() bool { return c == "" }
