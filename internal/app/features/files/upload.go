// internal/app/features/files/upload.go
package files

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/studyvault/internal/app/features/errors"
	"github.com/dalemusser/studyvault/internal/app/resolver"
	"github.com/dalemusser/studyvault/internal/app/system/blobstore"
	"github.com/dalemusser/studyvault/internal/app/system/htmlsanitize"
	"github.com/dalemusser/studyvault/internal/app/system/timeouts"
	"github.com/dalemusser/studyvault/internal/domain/models"
	"go.uber.org/zap"
)

type uploadResponse struct {
	File   models.FileResource `json:"file"`
	Record *models.FileRecord  `json:"record,omitempty"`
}

// HandleUpload handles POST /files/{subject}/{type} (multipart: file,
// title, public). The object lands at <root>/<subject>/<type>/<name>; an
// upload to an existing name replaces it.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	b, ok := h.bucket(w, r)
	if !ok {
		return
	}
	if _, known := h.Lookup.Subject(b.SubjectCode); !known {
		h.ErrLog.LogNotFound(w, r, "upload for unknown subject", nil, "Unknown subject code.")
		return
	}
	store := h.Resolver.Store()
	if !blobstore.IsConfigured(store) {
		h.ErrLog.LogUnavailable(w, r, "upload attempted without storage", blobstore.ErrNotConfigured, "File storage is not configured.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.ErrLog.LogTooLarge(w, r, "upload exceeds limit", err, "File is too large.")
			return
		}
		h.ErrLog.LogBadRequest(w, r, "parse multipart form failed", err, "Invalid upload form.")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "upload without file", err, "A file is required.")
		return
	}
	defer file.Close()

	public := true
	if v := strings.TrimSpace(r.FormValue("public")); v != "" {
		p, perr := strconv.ParseBool(v)
		if perr != nil {
			h.ErrLog.LogBadRequest(w, r, "invalid public flag", perr, "public must be true or false.")
			return
		}
		public = p
	}

	name := SanitizeFilename(header.Filename)
	objPath := h.Resolver.ObjectPath(b, name)
	ct := ContentTypeFor(header.Header.Get("Content-Type"), name)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "upload file")
	defer cancel()

	meta, err := store.Upload(ctx, objPath, file, header.Size, ct)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotConfigured) {
			h.ErrLog.LogUnavailable(w, r, "upload attempted without storage", err, "File storage is not configured.")
			return
		}
		h.ErrLog.LogServerError(w, r, "blob upload failed", err, "Unable to store the file.")
		return
	}

	resp := uploadResponse{File: h.Resolver.Resource(b, meta)}

	if h.Records != nil {
		title := htmlsanitize.PlainText(r.FormValue("title"))
		if title == "" {
			title = resolver.DisplayName(name)
		}
		rec, err := h.Records.Upsert(ctx, models.FileRecord{
			SubjectCode:  b.SubjectCode,
			MaterialType: b.MaterialType,
			Path:         objPath,
			FileName:     name,
			Title:        title,
			Size:         meta.Size,
			ContentType:  ct,
			IsPublic:     public,
		})
		if err != nil {
			h.ErrLog.LogServerError(w, r, "upload record failed", err, "File stored but its record could not be saved; retry the upload.")
			return
		}
		resp.Record = &rec
	}

	h.Log.Info("file uploaded",
		zap.String("path", objPath),
		zap.Int64("size", meta.Size),
		zap.Bool("public", public))
	uierrors.WriteJSON(w, http.StatusCreated, resp)
}
