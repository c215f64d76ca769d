package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/multierr"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeProfileIncomplete, status: http.StatusUnprocessableEntity, publicMsg: "customer profile incomplete", detailsOK: true},
		{code: CodeEmptyPurchase, status: http.StatusUnprocessableEntity, publicMsg: "nothing to purchase", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found", detailsOK: true},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeSubmission, status: http.StatusBadGateway, publicMsg: "payment submission failed", detailsOK: true},
		{code: CodeGateway, status: http.StatusBadGateway, publicMsg: "payment gateway unavailable", retryable: true, detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "foo"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeGateway, cause, "init gateway")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if !wrapped.Retryable() {
		t.Fatalf("gateway errors should be retryable")
	}
	if !IsCode(fmt.Errorf("outer: %w", wrapped), CodeGateway) {
		t.Fatalf("IsCode should see through wrapping")
	}
}

func TestIsCodeSeesNestedCodes(t *testing.T) {
	gateway := New(CodeGateway, "gateway down")
	outer := Wrap(CodeSubmission, fmt.Errorf("item p-1: %w", gateway), "all payment submissions failed")
	if !IsCode(outer, CodeSubmission) {
		t.Fatalf("expected outer code to match")
	}
	if !IsCode(outer, CodeGateway) {
		t.Fatalf("expected nested gateway code to match")
	}
	if IsCode(outer, CodeValidation) {
		t.Fatalf("unexpected validation match")
	}
	if IsCode(nil, CodeInternal) {
		t.Fatalf("nil error should match nothing")
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestLogFieldsListsAggregatedCauses(t *testing.T) {
	combined := multierr.Combine(
		New(CodeSubmission, "item a"),
		New(CodeSubmission, "item b"),
	)
	fields := LogFields(combined)
	causes, _ := fields["error_causes"].([]string)
	if len(causes) != 2 {
		t.Fatalf("expected two causes, got %v", fields["error_causes"])
	}
	if fields["code"] != CodeSubmission {
		t.Fatalf("expected first typed code, got %v", fields["code"])
	}
}

func TestLogFieldsIncludesPostgresDiagnostics(t *testing.T) {
	err := Wrap(CodeDependency, &pgconn.PgError{Code: "23514", ConstraintName: "payment_submissions_outcome_check"}, "record submission")
	fields := LogFields(err)
	if fields["pg_code"] != "23514" || fields["pg_constraint"] != "payment_submissions_outcome_check" {
		t.Fatalf("expected pg diagnostics, got %v", fields)
	}
	if fields["retryable"] != true {
		t.Fatalf("dependency errors are retryable, got %v", fields["retryable"])
	}
}
