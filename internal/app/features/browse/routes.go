// internal/app/features/browse/routes.go
package browse

import (
	"github.com/dalemusser/studyvault/internal/app/system/visitor"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the browse session endpoints (typically under "/browse").
func Routes(h *Handler, vm *visitor.Manager) chi.Router {
	r := chi.NewRouter()
	r.Use(vm.Middleware)

	r.Get("/", h.ServeView)
	r.Post("/select", h.HandleSelect)
	r.Post("/reset", h.HandleReset)
	r.Post("/refresh", h.HandleRefresh)
	return r
}
