// internal/app/features/files/routes.go
package files

import "github.com/go-chi/chi/v5"

// Routes mounts the file endpoints, typically under "/files".
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/{subject}/public", h.ServePublic)

	r.Get("/{subject}/{type}", h.ServeList)

	limit := h.Writes.Middleware(h.denyWrite)
	r.With(limit).Post("/{subject}/{type}", h.HandleUpload)
	r.With(limit).Delete("/{subject}/{type}/{name}", h.HandleDelete)
	return r
}
