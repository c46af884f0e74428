// internal/app/features/files/list.go
package files

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cespare/xxhash/v2"
	uierrors "github.com/dalemusser/studyvault/internal/app/features/errors"
	"github.com/dalemusser/studyvault/internal/app/merge"
	"github.com/dalemusser/studyvault/internal/app/present"
	"github.com/dalemusser/studyvault/internal/app/system/timeouts"
	"github.com/dalemusser/studyvault/internal/domain/models"
	"go.uber.org/zap"
)

type listResponse struct {
	Subject      string                `json:"subject"`
	MaterialType models.MaterialType   `json:"material_type"`
	Files        []models.FileResource `json:"files"`
	Groups       []present.Group       `json:"groups,omitempty"`
	Empty        bool                  `json:"empty"`
}

type publicResponse struct {
	Subject string              `json:"subject"`
	Files   []models.FileRecord `json:"files"`
}

// ServeList handles GET /files/{subject}/{type}: catalog entries merged
// with uploaded files, storage winning on equal ids. The response carries
// an ETag so pollers can use If-None-Match.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	b, ok := h.bucket(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list bucket files")
	defer cancel()

	merged := merge.MergeFiles(h.Lookup.FilesFor(b.SubjectCode, b.MaterialType), h.Resolver.List(ctx, b))
	resp := listResponse{
		Subject:      b.SubjectCode,
		MaterialType: b.MaterialType,
		Files:        merged,
		Empty:        len(merged) == 0,
	}
	if r.URL.Query().Get("group") == "1" {
		resp.Groups = present.GroupByMaterialType(merged)
	}

	body, err := json.Marshal(resp)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "encode listing failed", err, "Unable to list files.")
		return
	}
	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(body, '\n'))
}

// ServePublic handles GET /files/{subject}/public: the record store's
// public uploads for a subject, across material types.
func (h *Handler) ServePublic(w http.ResponseWriter, r *http.Request) {
	subject := pathParam(r, "subject")
	if subject == "" {
		h.ErrLog.LogBadRequest(w, r, "missing subject", nil, "Subject code is required.")
		return
	}
	if h.Records == nil {
		h.ErrLog.LogUnavailable(w, r, "public listing requested without a record store", nil, "File records are not available.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list public uploads")
	defer cancel()

	recs, err := h.Records.ListPublicBySubject(ctx, subject)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list public uploads failed", err, "A database error occurred.")
		return
	}
	h.Log.Debug("public uploads listed", zap.String("subject", subject), zap.Int("count", len(recs)))
	uierrors.WriteJSON(w, http.StatusOK, publicResponse{Subject: subject, Files: recs})
}
