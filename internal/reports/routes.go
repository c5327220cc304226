package reports

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/pl", h.ProfitLoss)
	r.Get("/pl.csv", h.ProfitLossCSV)
	r.Get("/pl.pdf", h.ProfitLossPDF)
	r.Get("/status-counts", h.StatusCounts)
	r.Get("/top-customers", h.TopCustomers)
	r.Get("/tax", h.TaxSummary)
	r.Get("/tax.csv", h.TaxSummaryCSV)
}
