package transactions

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/accountee/accountee/internal/platform/httpx"
	"github.com/accountee/accountee/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	req := ListTransactionsRequest{BusinessID: businessID, Search: r.URL.Query().Get("q"), Limit: 50}
	if v := r.URL.Query().Get("type"); v != "" {
		t := TxType(v)
		req.Type = &t
	}
	if v := r.URL.Query().Get("category"); v != "" {
		req.Category = &v
	}
	req.DateFrom = parseDate(r.URL.Query().Get("date_from"))
	req.DateTo = parseDate(r.URL.Query().Get("date_to"))
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 1000 {
		req.Limit = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && n >= 0 {
		req.Offset = n
	}

	txs, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list transactions", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"total":        total,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	tx, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), businessID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tx)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	var req CreateTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	tx, err := h.service.Create(r.Context(), businessID, req, currentUserID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tx)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	var req UpdateTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	tx, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), businessID, req, currentUserID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tx)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), businessID, currentUserID(r)); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	now := time.Now()
	from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(now.Year(), 12, 31, 0, 0, 0, 0, time.Local)
	if d := parseDate(r.URL.Query().Get("date_from")); d != nil {
		from = *d
	}
	if d := parseDate(r.URL.Query().Get("date_to")); d != nil {
		to = *d
	}

	summary, err := h.service.SummaryByMonth(r.Context(), businessID, from, to)
	if err != nil {
		h.logger.Error("transaction summary", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"months": summary})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "transaction not found")
	default:
		h.logger.Error("transaction operation failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func currentUserID(r *http.Request) string {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		return sess.User()
	}
	return ""
}

func currentBusinessID(r *http.Request) string {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		return sess.Business()
	}
	return ""
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
