package web

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIndexHandler(t *testing.T) {
	handler := IndexHandler(staticFS)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Container Calculator") {
		t.Error("index page should contain the dashboard title")
	}
}

func TestIndexHandlerServesAssets(t *testing.T) {
	handler := IndexHandler(staticFS)

	for _, path := range []string{"/app.js", "/style.css"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != 200 {
			t.Errorf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, 404, "nope")

	if rec.Code != 404 {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
	if !strings.Contains(rec.Body.String(), `"error":"nope"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
