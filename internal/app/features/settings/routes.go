package settings

import (
	"github.com/go-chi/chi/v5"

	"github.com/pod44apps/community-pulse/internal/app/system/auth"
)

// MountRoutes mounts the settings endpoints. Mounted under /settings.
// Reading is public; saving requires admin.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.ServeSettings)
	r.Get("/theme.css", h.ServeThemeCSS)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		r.Put("/", h.HandleSave)
	})
}
