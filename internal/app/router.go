package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/accountee/accountee/internal/auth"
	"github.com/accountee/accountee/internal/contacts"
	"github.com/accountee/accountee/internal/documents"
	"github.com/accountee/accountee/internal/observability"
	"github.com/accountee/accountee/internal/platform/httpx"
	"github.com/accountee/accountee/internal/reports"
	"github.com/accountee/accountee/internal/shared"
	"github.com/accountee/accountee/internal/transactions"
	"github.com/accountee/accountee/internal/withholding"
	"github.com/accountee/accountee/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler         *auth.Handler
	DocumentsHandler    *documents.Handler
	ContactsHandler     *contacts.Handler
	TransactionsHandler *transactions.Handler
	WithholdingHandler  *withholding.Handler
	ReportsHandler      *reports.Handler
	JobHandler          *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Accountee defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		// Clients fetch a token here and echo it back in the X-CSRF-Token header.
		r.Get("/csrf", func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			token, err := params.CSRFManager.EnsureToken(r.Context(), sess)
			if err != nil {
				params.Logger.Error("issue csrf token", slog.Any("error", err))
				httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "could not issue csrf token")
				return
			}
			httpx.JSON(w, http.StatusOK, map[string]string{"csrf_token": token})
		})
		params.AuthHandler.MountRoutes(r)
	})
	r.Route("/api/documents", params.DocumentsHandler.MountRoutes)
	r.Route("/api/contacts", params.ContactsHandler.MountRoutes)
	r.Route("/api/transactions", params.TransactionsHandler.MountRoutes)
	r.Route("/api/withholding", params.WithholdingHandler.MountRoutes)
	r.Route("/api/reports", params.ReportsHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
