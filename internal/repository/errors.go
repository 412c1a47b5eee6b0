package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict is matched by every *ConflictError.
	ErrConflict = errors.New("repository: conflict")
	// ErrInsufficientStock indicates a quantity adjustment would drop below zero.
	ErrInsufficientStock = errors.New("repository: insufficient stock")
)

// ConflictError reports a uniqueness or referential integrity violation.
type ConflictError struct {
	Constraint string
	Field      string
	Err        error
}

func (e *ConflictError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("repository: conflict on %s (%s)", e.Field, e.Constraint)
	}
	return fmt.Sprintf("repository: conflict (%s)", e.Constraint)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
