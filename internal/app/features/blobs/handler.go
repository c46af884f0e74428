// internal/app/features/blobs/handler.go
package blobs

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/studyvault/internal/app/features/errors"
	"github.com/dalemusser/studyvault/internal/app/system/blobstore"
	"github.com/dalemusser/studyvault/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler streams objects out of stores that have no public endpoint of
// their own (the embedded Badger backend). Their PublicURL points here.
type Handler struct {
	Store  blobstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(store blobstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Store: store, ErrLog: errLog, Log: logger}
}

// Serve handles GET /blobs/*. With ?download=<name> the object is sent as
// an attachment under that name.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	p := strings.Trim(chi.URLParam(r, "*"), "/")
	if p == "" || strings.Contains(p, "..") {
		h.ErrLog.LogBadRequest(w, r, "invalid blob path", nil, "Invalid path.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "open blob")
	defer cancel()

	rc, meta, err := h.Store.Open(ctx, p)
	if err != nil {
		switch {
		case errors.Is(err, blobstore.ErrNotFound):
			h.ErrLog.LogNotFound(w, r, "blob not found", err, "File not found.")
		case errors.Is(err, blobstore.ErrNotConfigured):
			h.ErrLog.LogUnavailable(w, r, "blob requested without storage", err, "File storage is not configured.")
		default:
			h.ErrLog.LogServerError(w, r, "open blob failed", err, "Unable to read the file.")
		}
		return
	}
	defer rc.Close()

	ct := meta.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	if meta.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	disposition := "inline"
	name := blobstore.Base(p)
	if dl := r.URL.Query().Get("download"); dl != "" {
		disposition = "attachment"
		name = dl
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": name}))

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		h.Log.Warn("blob stream interrupted", zap.String("path", p), zap.Error(err))
	}
}
