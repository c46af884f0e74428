// internal/app/features/blobs/routes.go
package blobs

import "github.com/go-chi/chi/v5"

// Routes mounts the blob endpoint under "/blobs".
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/*", h.Serve)
	r.Head("/*", h.Serve)
	return r
}
