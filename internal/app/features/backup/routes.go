package backup

import (
	"github.com/go-chi/chi/v5"

	"github.com/pod44apps/community-pulse/internal/app/system/auth"
)

// MountRoutes mounts the export/import endpoints. Mounted under /backup.
// The transfer core enforces the admin gate itself; the middleware here
// keeps non-admins from even reaching it.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(auth.RequireAdmin)
	r.Get("/export", h.ServeExport)
	r.Post("/import", h.HandleImport)
}
