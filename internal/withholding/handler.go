package withholding

import (
	"errors"
	"fmt"
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

	year := 0
	if n, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && n > 0 {
		year = n
	}
	limit, offset := 50, 0
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 1000 {
		limit = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && n >= 0 {
		offset = n
	}

	certs, total, err := h.service.List(r.Context(), businessID, year, limit, offset)
	if err != nil {
		h.logger.Error("list certificates", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"certificates": certs,
		"total":        total,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	cert, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), businessID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cert)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	var req CreateCertificateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	cert, err := h.service.Create(r.Context(), businessID, req, currentUserID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cert)
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

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	businessID := currentBusinessID(r)
	if businessID == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	pdf, err := h.service.RenderPDF(r.Context(), id, businessID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.respondError(w, err)
			return
		}
		h.logger.Error("render certificate pdf", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Render Failed", "")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=wht-%s.pdf", id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "certificate not found")
	default:
		h.logger.Error("withholding operation failed", slog.Any("error", err))
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
