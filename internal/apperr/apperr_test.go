package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsFindsWrappedError(t *testing.T) {
	err := fmt.Errorf("update book: %w", NotFound("There is no book with an isbn '1'"))

	appErr, ok := As(err)
	if !ok {
		t.Fatal("expected apperr.Error in chain")
	}
	if appErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", appErr.StatusCode)
	}
	if appErr.Error() != "There is no book with an isbn '1'" {
		t.Fatalf("unexpected message: %q", appErr.Error())
	}
}

func TestAsPlainError(t *testing.T) {
	if _, ok := As(errors.New("boom")); ok {
		t.Fatal("plain error must not match")
	}
}

func TestInternalHidesCause(t *testing.T) {
	err := Internal()
	if err.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", err.StatusCode)
	}
	if err.Message != "Internal Server Error" {
		t.Fatalf("unexpected message: %q", err.Message)
	}
}

func TestBadRequestStatus(t *testing.T) {
	if got := BadRequest("x").StatusCode; got != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", got)
	}
	if got := Conflict("x").StatusCode; got != http.StatusConflict {
		t.Fatalf("expected 409, got %d", got)
	}
}
