package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "load cart")

	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected the cause to survive wrapping")
	}
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeValidation, nil, "bad input")
	if err.Unwrap() != nil {
		t.Fatal("expected no cause")
	}
	if err.Message() != "bad input" {
		t.Fatalf("unexpected message %q", err.Message())
	}
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	t.Parallel()

	inner := New(CodeNotFound, "product not found")
	wrapped := fmt.Errorf("handling request: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected to recover the typed error")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestAsPlainError(t *testing.T) {
	t.Parallel()

	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for an untyped error")
	}
	if As(nil) != nil {
		t.Fatal("expected nil for nil input")
	}
}

func TestNilErrorDefaultsToInternal(t *testing.T) {
	t.Parallel()

	var err *Error
	if err.Code() != CodeInternal {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestMetadataForKnownAndUnknownCodes(t *testing.T) {
	t.Parallel()

	if meta := MetadataFor(CodeRateLimit); meta.HTTPStatus != http.StatusTooManyRequests {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(Code("MADE_UP")); meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected fallback status %d", meta.HTTPStatus)
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := New(CodeValidation, "bad input").WithDetails(map[string]string{"email": "required"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["email"] != "required" {
		t.Fatalf("unexpected details %v", err.Details())
	}
}
