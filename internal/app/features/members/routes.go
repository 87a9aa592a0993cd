package members

import (
	"github.com/go-chi/chi/v5"

	"github.com/pod44apps/community-pulse/internal/app/system/auth"
)

// MountRoutes mounts the member endpoints. Mounted under /members; all
// routes require a signed-in user, moderation requires admin.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.ServeDirectory)
	r.Get("/vocabulary", h.ServeVocabulary)
	r.Get("/{id}", h.ServeMember)
	r.Put("/me", h.HandleUpdateProfile)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		r.Post("/{id}/status", h.HandleSetStatus)
		r.Delete("/{id}", h.HandleDelete)
	})
}
