package domain

import (
	"fmt"
	"strings"
)

// NotFoundError means a referenced entity does not exist for the tenant or is
// soft-deleted. It aborts any open transaction and maps to HTTP 404.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// NewNotFound builds a NotFoundError for an entity reference.
func NewNotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError carries field-level problems with an input DTO. It is
// raised before any persistence call and maps to HTTP 400.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// ConflictError signals a uniqueness violation and maps to HTTP 409.
type ConflictError struct {
	Entity string
	Detail string
}

func (e *ConflictError) Error() string {
	return e.Entity + " conflict: " + e.Detail
}

// OperationFailedError wraps an unexpected failure caught at the service
// boundary. The cause is logged with tenant context; the API surfaces a
// generic 500 with no internal detail.
type OperationFailedError struct {
	Op  string
	Err error
}

func (e *OperationFailedError) Error() string {
	return e.Op + " failed"
}

func (e *OperationFailedError) Unwrap() error {
	return e.Err
}

// FailOp wraps err as an OperationFailedError unless it is already one of the
// typed domain errors, which pass through untouched.
func FailOp(op string, err error) error {
	if err == nil {
		return nil
	}
	switch err.(type) {
	case *NotFoundError, *ValidationError, *ConflictError, *OperationFailedError:
		return err
	}
	return &OperationFailedError{Op: op, Err: err}
}
