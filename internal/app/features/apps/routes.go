package apps

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the app-store endpoints. Mounted under /apps; all
// routes require a signed-in user.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeApp)
	r.Post("/", h.HandleCreate)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
}
