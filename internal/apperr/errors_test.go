package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"github.com/diewo77/ai-talent-hub/validation"
)

func TestDomainErrorWrapping(t *testing.T) {
	cause := errors.New("boom")
	err := Internal("saving job", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
	if len(err.StackTrace()) == 0 {
		t.Fatalf("expected a captured stack")
	}
	if err.Code != "generic_error" {
		t.Fatalf("internal errors must use the generic message, got %q", err.Code)
	}
}

func TestTypeOf(t *testing.T) {
	if TypeOf(nil) != "" {
		t.Fatalf("nil error has no type")
	}
	if TypeOf(errors.New("x")) != TypeInternal {
		t.Fatalf("foreign errors are internal")
	}
	wrapped := fmt.Errorf("context: %w", NotFound("user_not_found", "User not found", nil))
	if TypeOf(wrapped) != TypeNotFound {
		t.Fatalf("expected NOT_FOUND through wrapping")
	}
	if !Is(wrapped, TypeNotFound) || Is(wrapped, TypeDuplicate) {
		t.Fatalf("Is mismatch")
	}
}

func TestValidationCarriesFields(t *testing.T) {
	err := Validation(validation.Violations{"name": "too_short"})
	de, ok := As(err)
	if !ok || de.Fields["name"] != "too_short" {
		t.Fatalf("expected fields to be kept, got %+v", de)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[ErrorType]int{
		TypeValidation:   http.StatusBadRequest,
		TypeDuplicate:    http.StatusConflict,
		TypeNotFound:     http.StatusNotFound,
		TypeUnauthorized: http.StatusUnauthorized,
		TypeInternal:     http.StatusInternalServerError,
	}
	for typ, want := range cases {
		if got := HTTPStatus(typ); got != want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", typ, got, want)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Fatalf("translated gorm error should match")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: companies.name")) {
		t.Fatalf("sqlite message should match")
	}
	if !IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx_companies_name"`)) {
		t.Fatalf("postgres message should match")
	}
	if IsUniqueViolation(errors.New("connection refused")) || IsUniqueViolation(nil) {
		t.Fatalf("unrelated errors should not match")
	}
}

func TestFromDB(t *testing.T) {
	if FromDB(nil, "job_not_found", "Job not found") != nil {
		t.Fatalf("nil stays nil")
	}
	if err := FromDB(gorm.ErrRecordNotFound, "job_not_found", "Job not found"); !Is(err, TypeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := FromDB(gorm.ErrDuplicatedKey, "job_not_found", "Job not found"); !Is(err, TypeDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	err := FromDB(errors.New("connection reset"), "job_not_found", "Job not found")
	if TypeOf(err) != TypeInternal {
		t.Fatalf("expected internal, got %v", err)
	}
}
