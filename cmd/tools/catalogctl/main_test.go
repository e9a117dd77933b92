package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBuildRequest(t *testing.T) {
	cases := []struct {
		op, id, data string
		method, path string
	}{
		{op: "list", method: http.MethodGet, path: "/books"},
		{op: "get", id: "B1", method: http.MethodGet, path: "/books/B1"},
		{op: "create", data: `{"book_id":"B1"}`, method: http.MethodPost, path: "/books"},
		{op: "update", id: "a b", data: `{"copies":1}`, method: http.MethodPut, path: "/books/a%20b"},
		{op: "delete", id: "B1", method: http.MethodDelete, path: "/books/B1"},
	}

	for _, tc := range cases {
		method, path, _, err := buildRequest(tc.op, tc.id, tc.data)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.op, err)
		}
		if method != tc.method || path != tc.path {
			t.Fatalf("%s: got %s %s, want %s %s", tc.op, method, path, tc.method, tc.path)
		}
	}
}

func TestBuildRequestErrors(t *testing.T) {
	if _, _, _, err := buildRequest("get", "", ""); err == nil {
		t.Fatal("expected error for missing id")
	}
	if _, _, _, err := buildRequest("create", "", "{bad"); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if _, _, _, err := buildRequest("purge", "", ""); err == nil {
		t.Fatal("expected error for unknown operation")
	}
}

func TestSendPrettyPrints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Book not found"}`))
	}))
	defer srv.Close()

	status, body, err := send(context.Background(), srv.URL+"/books/x", http.MethodGet, nil)
	if err != nil {
		t.Fatalf("send err: %v", err)
	}
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if body != "{\n  \"error\": \"Book not found\"\n}" {
		t.Fatalf("unexpected body: %q", body)
	}
}
