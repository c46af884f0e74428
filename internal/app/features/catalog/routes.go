// internal/app/features/catalog/routes.go
package catalog

import "github.com/go-chi/chi/v5"

// Routes returns the catalog subrouter, mounted under /catalog.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/years", h.ServeYears)
	r.Get("/semesters", h.ServeSemesters)
	r.Get("/branches", h.ServeBranches)
	r.Get("/subjects", h.ServeSubjects)
	r.Get("/material-types", h.ServeMaterialTypes)
	return r
}
