package withholding

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Get("/{id}/pdf", h.PDF)
	r.Delete("/{id}", h.Delete)
}
