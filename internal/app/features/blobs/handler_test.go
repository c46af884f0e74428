package blobs_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/studyvault/internal/app/features/blobs"
	uierrors "github.com/dalemusser/studyvault/internal/app/features/errors"
	"github.com/dalemusser/studyvault/internal/app/system/blobstore"
	"go.uber.org/zap"
)

func newRouter(store blobstore.Store) http.Handler {
	logger := zap.NewNop()
	return blobs.Routes(blobs.NewHandler(store, uierrors.NewErrorLogger(logger), logger))
}

func TestServe(t *testing.T) {
	store := blobstore.NewMemory("")
	_, err := store.Upload(t.Context(), "materials/CSA103/pyq/end_sem.pdf", strings.NewReader("%PDF"), 4, "application/pdf")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	router := newRouter(store)

	tests := []struct {
		name        string
		target      string
		code        int
		disposition string
	}{
		{"inline", "/materials/CSA103/pyq/end_sem.pdf", http.StatusOK, `inline; filename=end_sem.pdf`},
		{"download", "/materials/CSA103/pyq/end_sem.pdf?download=End%20Sem.pdf", http.StatusOK, `attachment; filename="End Sem.pdf"`},
		{"missing", "/materials/CSA103/pyq/nope.pdf", http.StatusNotFound, ""},
		{"traversal", "/materials/../secret", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.target, nil))
			if rec.Code != tt.code {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.code)
			}
			if tt.code != http.StatusOK {
				return
			}
			if got := rec.Header().Get("Content-Disposition"); got != tt.disposition {
				t.Errorf("Content-Disposition: got %q, want %q", got, tt.disposition)
			}
			if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
				t.Errorf("Content-Type: got %q", got)
			}
			body, _ := io.ReadAll(rec.Body)
			if string(body) != "%PDF" {
				t.Errorf("body: got %q", body)
			}
		})
	}
}

func TestServe_Unconfigured(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(blobstore.Unconfigured{}).ServeHTTP(rec, httptest.NewRequest("GET", "/a/b.pdf", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
}
