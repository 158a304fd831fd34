package global

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is wrapped with the entity name by the persistence layer,
// e.g. "product not found".
var ErrNotFound = errors.New("not found")

func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// ValidationFailedError carries every violated field of a request.
type ValidationFailedError struct {
	Fields []ValidationError
}

func (e *ValidationFailedError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func NewValidationFailed(fields ...ValidationError) *ValidationFailedError {
	return &ValidationFailedError{Fields: fields}
}

// ReferenceNotFoundError means a referenced entity (e.g. a category) does not exist.
type ReferenceNotFoundError struct {
	Entity string
	ID     string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Entity, e.ID)
}

// DuplicateKeyError is a unique constraint collision on Field.
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("Duplicate %s: %s", e.Field, e.Value)
}
