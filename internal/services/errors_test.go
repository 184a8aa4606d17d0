package services_test

import (
	"errors"
	"strings"
	"testing"

	"reelog/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "flow", "rating", "out of range", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "flow: rating: out of range") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "store", "insert", "", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestIsRecoverable(t *testing.T) {
	if !services.IsRecoverable(services.Wrap(services.ErrValidation, "flow", "date", "bad format", nil)) {
		t.Fatal("validation errors should be recoverable")
	}
	if !services.IsRecoverable(services.ErrNotFound) {
		t.Fatal("not-found should be recoverable")
	}
	if services.IsRecoverable(services.ErrConfiguration) {
		t.Fatal("configuration errors are fatal")
	}
}
