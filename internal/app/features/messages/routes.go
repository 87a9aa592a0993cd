package messages

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the messaging endpoints. Mounted under /messages; all
// routes require a signed-in user.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/inbox", h.ServeInbox)
	r.Get("/sent", h.ServeSent)
	r.Get("/unread_count", h.ServeUnreadCount)
	r.Post("/", h.HandleSend)
	r.Post("/{id}/read", h.HandleMarkRead)
}
