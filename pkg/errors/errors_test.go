package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
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
		{code: CodeUnauthenticated, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeUnauthorized, status: http.StatusForbidden, publicMsg: DefaultUnauthorizedMessage},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeBusinessRule, status: http.StatusUnprocessableEntity, publicMsg: "business rule violated", detailsOK: true},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
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

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestDomainConstructors(t *testing.T) {
	if got := Unauthorized(""); got.Message() != DefaultUnauthorizedMessage {
		t.Fatalf("expected default unauthorized message, got %q", got.Message())
	}
	if got := Unauthorized("no"); got.Message() != "no" || got.Code() != CodeUnauthorized {
		t.Fatalf("unexpected unauthorized error %v", got)
	}
	if Validation("x").Code() != CodeValidation {
		t.Fatal("validation code mismatch")
	}
	if NotFound("x").Code() != CodeNotFound {
		t.Fatal("not found code mismatch")
	}
	if BusinessRule("x").Code() != CodeBusinessRule {
		t.Fatal("business rule code mismatch")
	}
}

func TestIsCodeFollowsWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", BusinessRule("owner cannot leave"))
	if !IsCode(err, CodeBusinessRule) {
		t.Fatal("expected wrapped business rule to match")
	}
	if IsCode(err, CodeValidation) {
		t.Fatal("unexpected validation match")
	}
	if IsCode(nil, CodeInternal) {
		t.Fatal("nil should never match")
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeUnauthorized, "no entry")
	if got := As(err); got == nil || got.Code() != CodeUnauthorized {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}
