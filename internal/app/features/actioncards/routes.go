package actioncards

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the action-card endpoints. Mounted under
// /action_cards; all routes require a signed-in user.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeCard)
	r.Post("/", h.HandleCreate)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
}
