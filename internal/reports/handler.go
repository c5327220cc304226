package reports

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/accountee/accountee/internal/platform/httpx"
	"github.com/accountee/accountee/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	renderer Renderer
}

func NewHandler(logger *slog.Logger, service *Service, renderer Renderer) *Handler {
	return &Handler{logger: logger, service: service, renderer: renderer}
}

func (h *Handler) ProfitLoss(w http.ResponseWriter, r *http.Request) {
	businessID, from, to, ok := h.scope(w, r)
	if !ok {
		return
	}

	report, err := h.service.ProfitLoss(r.Context(), businessID, from, to)
	if err != nil {
		h.logger.Error("profit loss report", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) ProfitLossCSV(w http.ResponseWriter, r *http.Request) {
	businessID, from, to, ok := h.scope(w, r)
	if !ok {
		return
	}

	report, err := h.service.ProfitLoss(r.Context(), businessID, from, to)
	if err != nil {
		h.logger.Error("profit loss csv", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=profit-loss.csv")
	if err := WritePLCSV(w, report); err != nil {
		h.logger.Error("write profit loss csv", slog.Any("error", err))
	}
}

func (h *Handler) ProfitLossPDF(w http.ResponseWriter, r *http.Request) {
	businessID, from, to, ok := h.scope(w, r)
	if !ok {
		return
	}

	report, err := h.service.ProfitLoss(r.Context(), businessID, from, to)
	if err != nil {
		h.logger.Error("profit loss pdf", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	pdf, err := RenderPLPDF(r.Context(), h.renderer, report, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		h.logger.Error("render profit loss pdf", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Render Failed", "")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=profit-loss.pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) StatusCounts(w http.ResponseWriter, r *http.Request) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	counts, err := h.service.StatusCounts(r.Context(), businessID)
	if err != nil {
		h.logger.Error("status counts", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"counts": counts})
}

func (h *Handler) TopCustomers(w http.ResponseWriter, r *http.Request) {
	businessID, from, to, ok := h.scope(w, r)
	if !ok {
		return
	}

	customers, err := h.service.TopCustomers(r.Context(), businessID, from, to, 10)
	if err != nil {
		h.logger.Error("top customers", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"customers": customers})
}

func (h *Handler) TaxSummary(w http.ResponseWriter, r *http.Request) {
	businessID, from, to, ok := h.scope(w, r)
	if !ok {
		return
	}

	summary, err := h.service.TaxSummary(r.Context(), businessID, from, to)
	if err != nil {
		h.logger.Error("tax summary", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) TaxSummaryCSV(w http.ResponseWriter, r *http.Request) {
	businessID, from, to, ok := h.scope(w, r)
	if !ok {
		return
	}

	summary, err := h.service.TaxSummary(r.Context(), businessID, from, to)
	if err != nil {
		h.logger.Error("tax summary csv", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=tax-%s.csv", from.Format("2006-01")))
	if err := WriteTaxCSV(w, summary); err != nil {
		h.logger.Error("write tax csv", slog.Any("error", err))
	}
}

// scope reads the business id from the session and the date range from the
// query string, defaulting to the current calendar year.
func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (string, time.Time, time.Time, bool) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return "", time.Time{}, time.Time{}, false
	}

	now := time.Now()
	from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(now.Year(), 12, 31, 0, 0, 0, 0, time.Local)
	if t, err := time.Parse("2006-01-02", r.URL.Query().Get("date_from")); err == nil {
		from = t
	}
	if t, err := time.Parse("2006-01-02", r.URL.Query().Get("date_to")); err == nil {
		to = t
	}
	return businessID, from, to, true
}

func currentBusinessID(r *http.Request) string {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		return sess.Business()
	}
	return ""
}
