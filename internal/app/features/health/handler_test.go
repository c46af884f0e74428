package health_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/studyvault/internal/app/features/health"
	"github.com/dalemusser/studyvault/internal/app/system/blobstore"
	"github.com/dalemusser/studyvault/internal/testutil"
	"go.uber.org/zap"
)

type healthBody struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Storage  string `json:"storage"`
	Message  string `json:"message"`
}

func serve(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, healthBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest("GET", "/health", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec, body
}

func TestServe_StorageStates(t *testing.T) {
	tests := []struct {
		name    string
		store   blobstore.Store
		status  string
		storage string
		message string
	}{
		{"configured", blobstore.NewMemory(""), "ok", "configured", ""},
		{"unconfigured", blobstore.Unconfigured{Reason: "STUDYVAULT_STORAGE_ACCESS_KEY is empty"}, "degraded", "unconfigured", "STUDYVAULT_STORAGE_ACCESS_KEY is empty"},
		{"nil store", nil, "degraded", "unconfigured", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serve(t, health.NewHandler(nil, tt.store, zap.NewNop()))
			if rec.Code != http.StatusOK {
				t.Errorf("status code: got %d, want 200", rec.Code)
			}
			if body.Status != tt.status || body.Storage != tt.storage || body.Message != tt.message {
				t.Errorf("body: got %+v", body)
			}
			if body.Database != "disabled" {
				t.Errorf("database: got %q, want disabled", body.Database)
			}
		})
	}
}

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)

	rec, body := serve(t, health.NewHandler(db.Client(), blobstore.NewMemory(""), zap.NewNop()))
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if body.Status != "ok" || body.Database != "connected" {
		t.Errorf("body: got %+v", body)
	}
}
