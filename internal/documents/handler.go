package documents

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

// Handler exposes the sales-document JSON API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
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

	req := ListRequest{BusinessID: businessID, Search: r.URL.Query().Get("q")}
	if t := r.URL.Query().Get("type"); t != "" {
		dt := DocType(t)
		req.Type = &dt
	}
	if st := r.URL.Query().Get("status"); st != "" {
		s := Status(st)
		req.Status = &s
	}
	req.DateFrom = parseDate(r.URL.Query().Get("date_from"))
	req.DateTo = parseDate(r.URL.Query().Get("date_to"))

	page, perPage := parsePage(r)
	req.Limit = perPage
	req.Offset = (page - 1) * perPage

	docs, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list documents", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"documents":  docs,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	businessID, ok := h.requireBusiness(w, r)
	if !ok {
		return
	}
	detail, err := h.service.GetDetail(r.Context(), chi.URLParam(r, "id"), businessID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	var req CreateDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	doc, err := h.service.Create(r.Context(), businessID, req, currentUserID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, doc)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	businessID, ok := h.requireBusiness(w, r)
	if !ok {
		return
	}
	doc, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), businessID, req, currentUserID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID, ok := h.requireBusiness(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), businessID, currentUserID(r)); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	businessID, ok := h.requireBusiness(w, r)
	if !ok {
		return
	}
	doc, err := h.service.Send(r.Context(), chi.URLParam(r, "id"), businessID, currentUserID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	var req AcceptRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
			return
		}
	}
	businessID, ok := h.requireBusiness(w, r)
	if !ok {
		return
	}
	doc, err := h.service.Accept(r.Context(), chi.URLParam(r, "id"), businessID, req, currentUserID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	businessID, ok := h.requireBusiness(w, r)
	if !ok {
		return
	}
	doc, err := h.service.Reject(r.Context(), chi.URLParam(r, "id"), businessID, currentUserID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
			return
		}
	}
	businessID, ok := h.requireBusiness(w, r)
	if !ok {
		return
	}
	invoice, err := h.service.ConvertToInvoice(r.Context(), chi.URLParam(r, "id"), businessID, req, currentUserID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, invoice)
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	businessID, ok := h.requireBusiness(w, r)
	if !ok {
		return
	}
	receipt, err := h.service.RecordPayment(r.Context(), chi.URLParam(r, "id"), businessID, r.Header.Get("Idempotency-Key"), currentUserID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, receipt)
}

func (h *Handler) Void(w http.ResponseWriter, r *http.Request) {
	businessID, ok := h.requireBusiness(w, r)
	if !ok {
		return
	}
	doc, err := h.service.Void(r.Context(), chi.URLParam(r, "id"), businessID, currentUserID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "document not found")
	case errors.Is(err, httpx.ErrLocked):
		httpx.Problem(w, http.StatusConflict, "Locked", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		httpx.Problem(w, http.StatusConflict, "Invalid Transition", err.Error())
	case errors.Is(err, shared.ErrIdempotencyConflict):
		httpx.Problem(w, http.StatusConflict, "Duplicate Request", err.Error())
	default:
		h.logger.Error("document operation failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// requireBusiness resolves the session's business scope or writes a 401.
func (h *Handler) requireBusiness(w http.ResponseWriter, r *http.Request) (string, bool) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return "", false
	}
	return businessID, true
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

func parsePage(r *http.Request) (page, perPage int) {
	page, perPage = 1, 50
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && n > 0 && n <= 200 {
		perPage = n
	}
	return page, perPage
}
