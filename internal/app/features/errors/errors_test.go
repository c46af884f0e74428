package errors_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/studyvault/internal/app/features/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorLogger(t *testing.T) {
	tests := []struct {
		name  string
		call  func(e *uierrors.ErrorLogger, w http.ResponseWriter, r *http.Request)
		code  int
		level string
	}{
		{"bad request", func(e *uierrors.ErrorLogger, w http.ResponseWriter, r *http.Request) {
			e.LogBadRequest(w, r, "bad input", errors.New("boom"), "Invalid input.")
		}, http.StatusBadRequest, "warn"},
		{"not found", func(e *uierrors.ErrorLogger, w http.ResponseWriter, r *http.Request) {
			e.LogNotFound(w, r, "missing", errors.New("boom"), "Invalid input.")
		}, http.StatusNotFound, "info"},
		{"conflict", func(e *uierrors.ErrorLogger, w http.ResponseWriter, r *http.Request) {
			e.LogConflict(w, r, "dup", errors.New("boom"), "Invalid input.")
		}, http.StatusConflict, "info"},
		{"too large", func(e *uierrors.ErrorLogger, w http.ResponseWriter, r *http.Request) {
			e.LogTooLarge(w, r, "upload too large", errors.New("boom"), "Invalid input.")
		}, http.StatusRequestEntityTooLarge, "warn"},
		{"unavailable", func(e *uierrors.ErrorLogger, w http.ResponseWriter, r *http.Request) {
			e.LogUnavailable(w, r, "no storage", errors.New("boom"), "Invalid input.")
		}, http.StatusServiceUnavailable, "warn"},
		{"server error", func(e *uierrors.ErrorLogger, w http.ResponseWriter, r *http.Request) {
			e.LogServerError(w, r, "db failed", errors.New("boom"), "Invalid input.")
		}, http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			e := uierrors.NewErrorLogger(zap.New(core))

			req := httptest.NewRequest("POST", "/files/CSA103/syllabus", nil)
			rec := httptest.NewRecorder()
			tt.call(e, rec, req)

			if rec.Code != tt.code {
				t.Errorf("status: got %d, want %d", rec.Code, tt.code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type: got %q", ct)
			}
			var body uierrors.Response
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if body.Status != "error" || body.Message != "Invalid input." {
				t.Errorf("body: %+v", body)
			}

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("logged %d entries, want 1", len(entries))
			}
			if entries[0].Level.String() != tt.level {
				t.Errorf("level: got %s, want %s", entries[0].Level, tt.level)
			}
			if entries[0].ContextMap()["path"] != "/files/CSA103/syllabus" {
				t.Errorf("missing path field: %v", entries[0].ContextMap())
			}
		})
	}
}

func TestFallbacks(t *testing.T) {
	rec := httptest.NewRecorder()
	uierrors.NotFound(rec, httptest.NewRequest("GET", "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("NotFound: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	uierrors.MethodNotAllowed(rec, httptest.NewRequest("PUT", "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("MethodNotAllowed: got %d", rec.Code)
	}
}
