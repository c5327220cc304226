package contacts

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

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

	req := ListContactsRequest{BusinessID: businessID, Limit: 50}
	if v := r.URL.Query().Get("is_vendor"); v != "" {
		b := v == "true"
		req.IsVendor = &b
	}
	if v := r.URL.Query().Get("is_active"); v != "" {
		b := v == "true"
		req.IsActive = &b
	}
	if q := r.URL.Query().Get("q"); q != "" {
		req.Search = &q
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 1000 {
		req.Limit = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && n >= 0 {
		req.Offset = n
	}

	contacts, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list contacts", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"contacts": contacts,
		"total":    total,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	contact, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), businessID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contact)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	var req CreateContactRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	contact, err := h.service.Create(r.Context(), businessID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, contact)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	var req UpdateContactRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	contact, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), businessID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contact)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), businessID); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "contact not found")
	case errors.Is(err, ErrAlreadyExists):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error("contact operation failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func currentBusinessID(r *http.Request) string {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		return sess.Business()
	}
	return ""
}
