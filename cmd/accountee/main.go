package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/accountee/accountee/internal/app"
	"github.com/accountee/accountee/internal/auth"
	"github.com/accountee/accountee/internal/contacts"
	"github.com/accountee/accountee/internal/documents"
	"github.com/accountee/accountee/internal/observability"
	"github.com/accountee/accountee/internal/platform/cache"
	"github.com/accountee/accountee/internal/platform/db"
	"github.com/accountee/accountee/internal/reports"
	"github.com/accountee/accountee/internal/shared"
	"github.com/accountee/accountee/internal/transactions"
	"github.com/accountee/accountee/internal/withholding"
	"github.com/accountee/accountee/jobs"
	"github.com/accountee/accountee/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "accountee_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	auditLogger := shared.NewAuditLogger(dbpool)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	documentsRepo := documents.NewRepository(dbpool)
	resolver := documents.NewResolver(documentsRepo, logger)
	documentsService := documents.NewService(documentsRepo, resolver, auditLogger, idempotencyStore, logger)
	documentsHandler := documents.NewHandler(logger, documentsService)

	contactsRepo := contacts.NewRepository(dbpool)
	contactsService := contacts.NewService(contactsRepo)
	contactsHandler := contacts.NewHandler(logger, contactsService)

	transactionsRepo := transactions.NewRepository(dbpool)
	transactionsService := transactions.NewService(transactionsRepo, auditLogger, logger)
	transactionsHandler := transactions.NewHandler(logger, transactionsService)

	pdfClient := report.NewClient(cfg.GotenbergURL)

	withholdingRepo := withholding.NewRepository(dbpool)
	withholdingService := withholding.NewService(withholdingRepo, pdfClient, auditLogger, logger)
	withholdingHandler := withholding.NewHandler(logger, withholdingService)

	reportsStore := reports.NewStore(dbpool)
	reportsCache := reports.NewCache(redisClient, 10*time.Minute)
	reportsService := reports.NewService(reportsStore, reportsCache)
	reportsHandler := reports.NewHandler(logger, reportsService, pdfClient)

	go func() {
		if err := reportsCache.ListenForInvalidation(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("report cache invalidation listener stopped", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		SessionManager:      sessionManager,
		CSRFManager:         csrfManager,
		AuthHandler:         authHandler,
		DocumentsHandler:    documentsHandler,
		ContactsHandler:     contactsHandler,
		TransactionsHandler: transactionsHandler,
		WithholdingHandler:  withholdingHandler,
		ReportsHandler:      reportsHandler,
		JobHandler:          jobHandler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
