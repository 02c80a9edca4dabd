// Package apperr defines the domain error kinds shared by services and
// handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/go-errors/errors"
	"gorm.io/gorm"

	"github.com/diewo77/ai-talent-hub/validation"
)

type ErrorType string

const (
	TypeValidation   ErrorType = "VALIDATION"
	TypeDuplicate    ErrorType = "DUPLICATE"
	TypeNotFound     ErrorType = "NOT_FOUND"
	TypeUnauthorized ErrorType = "UNAUTHORIZED"
	TypeInternal     ErrorType = "INTERNAL"
)

// DomainError carries a kind, a user facing message code and the stack of
// the place it was raised.
type DomainError struct {
	Type    ErrorType
	Code    string // i18n message code
	Message string
	Fields  validation.Violations
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, code, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		var stackErr *goerrors.Error
		if errors.As(err, &stackErr) {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Code:    code,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

// Validation wraps field violations.
func Validation(fields validation.Violations) *DomainError {
	e := New(TypeValidation, "invalid_input", "invalid input", nil)
	e.Fields = fields
	return e
}

func Duplicate(code, message string, err error) *DomainError {
	return New(TypeDuplicate, code, message, err)
}

func NotFound(code, message string, err error) *DomainError {
	return New(TypeNotFound, code, message, err)
}

func Unauthorized(message string, err error) *DomainError {
	return New(TypeUnauthorized, "invalid_credentials", message, err)
}

func Internal(message string, err error) *DomainError {
	return New(TypeInternal, "generic_error", message, err)
}

// TypeOf returns the kind of err, TypeInternal for foreign errors and ""
// for nil.
func TypeOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return TypeInternal
}

// Is reports whether err is a DomainError of the given kind.
func Is(err error, t ErrorType) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Type == t
}

// As extracts the DomainError from err.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	ok := errors.As(err, &de)
	return de, ok
}

// HTTPStatus maps a kind to the status used by JSON endpoints.
func HTTPStatus(t ErrorType) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeDuplicate:
		return http.StatusConflict
	case TypeNotFound:
		return http.StatusNotFound
	case TypeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// IsUniqueViolation detects unique constraint failures across drivers,
// whether or not gorm translated the error.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// IsRecordNotFound reports gorm's not-found error.
func IsRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// FromDB maps a gorm error to a DomainError: a missing row becomes
// NotFound with code and message, a unique violation Duplicate, anything
// else Internal. A nil err stays nil.
func FromDB(err error, code, message string) error {
	switch {
	case err == nil:
		return nil
	case IsRecordNotFound(err):
		return NotFound(code, message, err)
	case IsUniqueViolation(err):
		return Duplicate("duplicate_entry", "Entry already exists", err)
	default:
		return Internal(message, err)
	}
}
