// Package domainerrors defines the coded error type surfaced by domain
// services. Stores report infrastructure facts through pkg/platform/sentinel;
// services translate those facts into coded errors here, which the transport
// layer maps onto HTTP statuses.
//
// Import as:
//
//	dErrors "clinica/pkg/domain-errors"
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for callers and the HTTP boundary.
type Code string

const (
	// CodeNotFound: a referenced entity does not exist for the given id/key.
	CodeNotFound Code = "not_found"
	// CodeAlreadyExists: a natural key is already taken (strict-insert paths).
	CodeAlreadyExists Code = "already_exists"
	// CodeValidation: request content violates a business invariant.
	CodeValidation Code = "validation_failed"
	// CodeInvariantViolation: an entity constructor or transition rejected a state.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInvalidInput: a field failed parsing at a trust boundary.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest: the request is malformed at the transport level.
	CodeBadRequest Code = "bad_request"
	// CodeInternal: opaque downstream failure; details stay out of responses.
	CodeInternal Code = "internal_error"
)

// Error carries a code, a human-readable message, and optionally the entity
// reference (kind + id) the error is about. NotFound and AlreadyExists errors
// always name the entity they refer to.
type Error struct {
	Code    Code
	Message string
	Entity  string
	ID      string
	wrapped error
}

func (e *Error) Error() string {
	if e.Entity != "" && e.ID != "" {
		return fmt.Sprintf("%s: %s %s: %s", e.Code, e.Entity, e.ID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.wrapped }

// New builds a coded error.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a CodeNotFound error naming the missing entity.
func NotFound(entity, id string) error {
	return &Error{Code: CodeNotFound, Entity: entity, ID: id, Message: entity + " not found"}
}

// AlreadyExists builds a CodeAlreadyExists error naming the taken key.
func AlreadyExists(entity, id string) error {
	return &Error{Code: CodeAlreadyExists, Entity: entity, ID: id, Message: entity + " already exists"}
}

// Wrap attaches a code and message to a downstream error, preserving the
// original for errors.Is/As chains.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, wrapped: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.wrapped
		if err == nil {
			return false
		}
	}
	return false
}

// CodeOf returns the outermost code, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// EntityRef returns the entity kind and id named by err, if any.
func EntityRef(err error) (entity, id string, ok bool) {
	var de *Error
	if errors.As(err, &de) && de.Entity != "" {
		return de.Entity, de.ID, true
	}
	return "", "", false
}
