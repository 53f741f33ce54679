package apperr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type Kind int

const (
	KindStorage Kind = iota
	KindNotFound
	KindConstraint
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConstraint:
		return "constraint_violation"
	case KindValidation:
		return "validation_failure"
	default:
		return "storage_error"
	}
}

// Error carries a failure kind through the service layer so the HTTP
// boundary can pick a status without inspecting driver errors.
type Error struct {
	Kind Kind
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Err == nil && t.Kind == e.Kind
}

var (
	ErrNotFound   = &Error{Kind: KindNotFound, Code: "NOT_FOUND"}
	ErrConstraint = &Error{Kind: KindConstraint, Code: "CONSTRAINT_VIOLATION"}
	ErrValidation = &Error{Kind: KindValidation, Code: "VALIDATION_FAILED"}
	ErrStorage    = &Error{Kind: KindStorage, Code: "INTERNAL_ERROR"}
)

func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Code: codeFor(kind), Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Errorf(format, args...))
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Errorf(format, args...))
}

func codeFor(kind Kind) string {
	switch kind {
	case KindNotFound:
		return ErrNotFound.Code
	case KindConstraint:
		return ErrConstraint.Code
	case KindValidation:
		return ErrValidation.Code
	default:
		return ErrStorage.Code
	}
}

// KindOf reports the kind of err. Errors that were never classified are
// storage errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// FromDB classifies an error returned by gorm. Already classified errors
// pass through untouched.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return New(KindNotFound, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrCheckConstraintViolated),
		isConstraintMessage(err):
		return New(KindConstraint, err)
	case errors.Is(err, context.DeadlineExceeded):
		return New(KindStorage, fmt.Errorf("storage timeout: %w", err))
	}
	return New(KindStorage, err)
}

func isConstraintMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint failed") ||
		strings.Contains(msg, "foreign key") ||
		strings.Contains(msg, "violates check constraint") ||
		strings.Contains(msg, "violates not-null constraint")
}
