// internal/app/features/health/handler.go
package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/studyvault/internal/app/system/blobstore"
	"github.com/dalemusser/studyvault/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks. Client may be nil
// when the service runs without a record store.
type Handler struct {
	Client *mongo.Client
	Store  blobstore.Store
	Log    *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(client *mongo.Client, store blobstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Store:  store,
		Log:    logger,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Storage  string `json:"storage"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// Missing storage credentials are not fatal: listings still serve catalog
// entries, so the status is "degraded" with 200. A failed database ping
// answers 503.
//
//	{ "status":"ok", "database":"connected", "storage":"configured" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "disabled",
		Storage:  "configured",
	}

	if !blobstore.IsConfigured(h.Store) {
		resp.Status = "degraded"
		resp.Storage = "unconfigured"
		if u, ok := h.Store.(blobstore.Unconfigured); ok && u.Reason != "" {
			resp.Message = u.Reason
		}
	}

	if h.Client != nil {
		resp.Database = "connected"
		if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
			h.Log.Error("health-check: mongo ping failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			resp.Status = "error"
			resp.Database = "disconnected"
			resp.Message = "Database unavailable"
			resp.Error = err.Error()
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
