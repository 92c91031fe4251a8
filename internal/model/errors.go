package model

import (
	"errors"
	"fmt"
)

// ValidationError reports user input that fails a precondition. The
// operation that returned it was not attempted.
type ValidationError struct {
	Field string
	Msg   string

	// Err carries aggregated field errors (criterio.FieldErrors) when
	// more than one field was checked.
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return "invalid input: " + e.Err.Error()
	}
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid returns a single-field ValidationError.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// NotFoundError reports a lookup by id that matched nothing. Callers
// treat it as "still loading" or "already deleted".
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// NotFound returns a NotFoundError for the given record kind and id.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// StorageError wraps a failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
