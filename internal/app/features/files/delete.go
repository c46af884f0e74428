// internal/app/features/files/delete.go
package files

import (
	"errors"
	"net/http"

	"github.com/dalemusser/studyvault/internal/app/system/blobstore"
	"github.com/dalemusser/studyvault/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /files/{subject}/{type}/{name}. Only
// uploaded files can be deleted; catalog entries are read-only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	b, ok := h.bucket(w, r)
	if !ok {
		return
	}
	name := pathParam(r, "name")
	if name == "" || SanitizeFilename(name) != name {
		h.ErrLog.LogBadRequest(w, r, "invalid object name", nil, "Invalid file name.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete file")
	defer cancel()

	objPath := h.Resolver.ObjectPath(b, name)
	if err := h.Resolver.Store().Remove(ctx, objPath); err != nil {
		switch {
		case errors.Is(err, blobstore.ErrNotFound):
			h.ErrLog.LogNotFound(w, r, "delete of missing object", err, "File not found.")
		case errors.Is(err, blobstore.ErrNotConfigured):
			h.ErrLog.LogUnavailable(w, r, "delete attempted without storage", err, "File storage is not configured.")
		default:
			h.ErrLog.LogServerError(w, r, "blob delete failed", err, "Unable to delete the file.")
		}
		return
	}

	if h.Records != nil {
		if _, err := h.Records.DeleteByPath(ctx, objPath); err != nil {
			// The blob is gone, so listings are already correct.
			h.Log.Warn("failed to delete upload record",
				zap.String("path", objPath), zap.Error(err))
		}
	}

	h.Log.Info("file deleted", zap.String("path", objPath))
	w.WriteHeader(http.StatusNoContent)
}
