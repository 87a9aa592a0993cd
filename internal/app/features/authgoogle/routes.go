package authgoogle

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the Google OAuth endpoints. Mounted under /auth/google.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.ServeLogin)
	r.Get("/callback", h.ServeCallback)
}
