package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondError(rec, http.StatusNotFound, "Book not found")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"error\":\"Book not found\"}\n" {
		t.Fatalf("unexpected body: %q", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type: %s", ct)
	}
}

func TestRespondMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondMessage(rec, http.StatusOK, "Book deleted")

	if got := rec.Body.String(); got != "{\"message\":\"Book deleted\"}\n" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestRespondJSONEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondJSON(rec, http.StatusOK, map[string]any{"ch": make(chan int)})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"error\":\"internal server error\"}\n" {
		t.Fatalf("unexpected body: %q", got)
	}
}
