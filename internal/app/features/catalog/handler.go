// internal/app/features/catalog/handler.go
package catalog

import (
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/studyvault/internal/app/features/errors"
	"github.com/dalemusser/studyvault/internal/app/catalog"
	"github.com/dalemusser/studyvault/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves read-only curriculum queries.
type Handler struct {
	Lookup *catalog.Lookup
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(lookup *catalog.Lookup, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Lookup: lookup, ErrLog: errLog, Log: logger}
}

type materialTypeOut struct {
	ID    models.MaterialType `json:"id"`
	Label string              `json:"label"`
}

// ServeYears handles GET /catalog/years.
func (h *Handler) ServeYears(w http.ResponseWriter, r *http.Request) {
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"years": h.Lookup.Years()})
}

// ServeSemesters handles GET /catalog/semesters?year=.
func (h *Handler) ServeSemesters(w http.ResponseWriter, r *http.Request) {
	year, ok := h.intParam(w, r, "year")
	if !ok {
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{
		"year":      year,
		"semesters": h.Lookup.Semesters(year),
	})
}

// ServeBranches handles GET /catalog/branches?year=&semester=.
func (h *Handler) ServeBranches(w http.ResponseWriter, r *http.Request) {
	year, ok := h.intParam(w, r, "year")
	if !ok {
		return
	}
	sem, ok := h.intParam(w, r, "semester")
	if !ok {
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{
		"year":     year,
		"semester": sem,
		"branches": h.Lookup.Branches(year, sem),
	})
}

// ServeSubjects handles GET /catalog/subjects?year=&semester=&branch=.
// An undefined combination answers 200 with an empty list.
func (h *Handler) ServeSubjects(w http.ResponseWriter, r *http.Request) {
	year, ok := h.intParam(w, r, "year")
	if !ok {
		return
	}
	sem, ok := h.intParam(w, r, "semester")
	if !ok {
		return
	}
	branch := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("branch")))
	if branch == "" {
		h.ErrLog.LogBadRequest(w, r, "missing branch", nil, "branch is required.")
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{
		"year":     year,
		"semester": sem,
		"branch":   branch,
		"subjects": h.Lookup.SubjectsFor(year, sem, branch),
	})
}

// ServeMaterialTypes handles GET /catalog/material-types.
func (h *Handler) ServeMaterialTypes(w http.ResponseWriter, r *http.Request) {
	out := make([]materialTypeOut, 0, len(models.MaterialTypes))
	for _, mt := range models.MaterialTypes {
		out = append(out, materialTypeOut{ID: mt, Label: mt.Label()})
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"material_types": out})
}

func (h *Handler) intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		h.ErrLog.LogBadRequest(w, r, "invalid "+name, err, name+" must be a positive integer.")
		return 0, false
	}
	return n, true
}
