// internal/app/features/files/handler.go
package files

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/studyvault/internal/app/catalog"
	uierrors "github.com/dalemusser/studyvault/internal/app/features/errors"
	"github.com/dalemusser/studyvault/internal/app/resolver"
	"github.com/dalemusser/studyvault/internal/app/system/ratelimit"
	"github.com/dalemusser/studyvault/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultMaxUploadBytes caps a single upload when no limit is configured.
const DefaultMaxUploadBytes = 50 << 20

// Records is the upload record store. store/uploads (Mongo) and
// store/uploadspg (Postgres) both satisfy it.
type Records interface {
	Upsert(ctx context.Context, r models.FileRecord) (models.FileRecord, error)
	DeleteByPath(ctx context.Context, path string) (int64, error)
	ListPublicBySubject(ctx context.Context, subjectCode string) ([]models.FileRecord, error)
}

// Handler serves stateless bucket listings and file management.
//
// Records may be nil when no record backend is configured; uploads and
// deletes then touch only the blob store and /public answers 503.
// Writes limits uploads and deletes per client; nil means unlimited.
type Handler struct {
	Lookup         *catalog.Lookup
	Resolver       *resolver.Resolver
	Records        Records
	MaxUploadBytes int64
	Writes         *ratelimit.Limiter
	ErrLog         *uierrors.ErrorLogger
	Log            *zap.Logger
}

func NewHandler(lookup *catalog.Lookup, res *resolver.Resolver, records Records, maxUploadBytes int64, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		Lookup:         lookup,
		Resolver:       res,
		Records:        records,
		MaxUploadBytes: maxUploadBytes,
		ErrLog:         errLog,
		Log:            logger,
	}
}

// pathParam returns a URL parameter with percent-escapes decoded.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		raw = v
	}
	return strings.TrimSpace(raw)
}

// bucket reads {subject} and {type}, replying 400 when either is unusable.
func (h *Handler) bucket(w http.ResponseWriter, r *http.Request) (models.Bucket, bool) {
	subject := pathParam(r, "subject")
	if subject == "" {
		h.ErrLog.LogBadRequest(w, r, "missing subject", nil, "Subject code is required.")
		return models.Bucket{}, false
	}
	mt, ok := models.ParseMaterialType(pathParam(r, "type"))
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "unknown material type", nil, "Unknown material type.")
		return models.Bucket{}, false
	}
	return models.Bucket{SubjectCode: subject, MaterialType: mt}, true
}

func (h *Handler) denyWrite(w http.ResponseWriter, r *http.Request) {
	h.ErrLog.LogTooManyRequests(w, r, "write rate limit exceeded", nil, "Too many uploads or deletes. Please wait and try again.")
}
