package apperr

import (
	"errors"
	"testing"
)

func TestValidationMatchesSentinel(t *testing.T) {
	err := Validation("rating", "must be between 1 and 5")
	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected validation error to match ErrValidation")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "rating" {
		t.Fatalf("expected field rating, got %+v", verr)
	}
	if err.Error() != "rating must be between 1 and 5" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("capability")
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected not found sentinel")
	}
	if err.Error() != "capability not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
