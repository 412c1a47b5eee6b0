package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/repository"
)

// ErrorKind classifies a failed operation.
type ErrorKind string

const (
	KindUnauthorized      ErrorKind = "unauthorized"
	KindCrossTenantAccess ErrorKind = "cross_tenant_access"
	KindInsufficientRole  ErrorKind = "insufficient_role"
	KindNotFound          ErrorKind = "not_found"
	KindConflict          ErrorKind = "conflict"
	KindInvalidInput      ErrorKind = "invalid_input"
)

var (
	// ErrUnauthorized indicates no valid principal could be resolved.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrCrossTenantAccess indicates the principal's tenant does not own the resource.
	ErrCrossTenantAccess = errors.New("cross-tenant access")
	// ErrInsufficientRole indicates the principal's role is not allowed for the operation.
	ErrInsufficientRole = errors.New("insufficient role")
	// ErrNotFound indicates the target resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness or referential integrity violation.
	ErrConflict = errors.New("conflict")
	// ErrInvalidInput indicates the request payload failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

var kindSentinels = map[ErrorKind]error{
	KindUnauthorized:      ErrUnauthorized,
	KindCrossTenantAccess: ErrCrossTenantAccess,
	KindInsufficientRole:  ErrInsufficientRole,
	KindNotFound:          ErrNotFound,
	KindConflict:          ErrConflict,
	KindInvalidInput:      ErrInvalidInput,
}

// Error is the typed failure returned by every controller operation.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	// Field names the offending input field for conflicts and validation errors.
	Field string
	// Required is the allowed role set of a failed role check. Server side only.
	Required domain.RoleSet
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(kindSentinels[e.Kind].Error())
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %s)", e.Field)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// KindOf extracts the kind of a typed error, or "" for untyped failures.
func KindOf(err error) ErrorKind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return ""
}

func unauthorized(op string) error {
	return &Error{Kind: KindUnauthorized, Op: op, Message: "authentication required"}
}

func notFound(op string, kind domain.ResourceKind) error {
	return &Error{Kind: KindNotFound, Op: op, Message: string(kind) + " not found"}
}

func invalidInput(op, field, message string) error {
	return &Error{Kind: KindInvalidInput, Op: op, Field: field, Message: message}
}

// storageError converts repository failures into typed errors. Anything not
// recognised is wrapped and propagated unchanged.
func storageError(op string, kind domain.ResourceKind, err error) error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return err
	}

	var conflict *repository.ConflictError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound(op, kind)
	case errors.As(err, &conflict):
		message := "conflicts with existing data"
		if conflict.Field != "" {
			message = conflict.Field + " conflicts with existing data"
		}
		return &Error{Kind: KindConflict, Op: op, Field: conflict.Field, Message: message, Err: err}
	case errors.Is(err, repository.ErrInsufficientStock):
		return &Error{Kind: KindConflict, Op: op, Field: "quantity", Message: "insufficient stock", Err: err}
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
