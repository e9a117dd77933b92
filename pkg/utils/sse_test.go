package utils

import (
	"net/http/httptest"
	"testing"
)

func TestSendSSEEventFormat(t *testing.T) {
	rec := httptest.NewRecorder()

	if err := SendSSEEvent(rec, rec, "42", "created", map[string]string{"book_id": "B1"}); err != nil {
		t.Fatalf("SendSSEEvent err: %v", err)
	}

	want := "id: 42\nevent: created\ndata: {\"book_id\":\"B1\"}\n\n"
	if rec.Body.String() != want {
		t.Fatalf("unexpected frame: %q", rec.Body.String())
	}
	if !rec.Flushed {
		t.Fatal("expected recorder to be flushed")
	}
}
