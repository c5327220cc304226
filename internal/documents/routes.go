package documents

import "github.com/go-chi/chi/v5"

// MountRoutes attaches the sales-document endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Post("/{id}/send", h.Send)
	r.Post("/{id}/accept", h.Accept)
	r.Post("/{id}/reject", h.Reject)
	r.Post("/{id}/convert", h.Convert)
	r.Post("/{id}/payment", h.RecordPayment)
	r.Post("/{id}/void", h.Void)
}
