package session

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the session endpoints. Mounted under /auth.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.HandleLogin)
	r.Post("/register", h.HandleRegister)
	r.Post("/logout", h.HandleLogout)
	r.Get("/me", h.ServeMe)
}
