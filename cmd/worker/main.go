package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/accountee/accountee/internal/app"
	"github.com/accountee/accountee/internal/platform/cache"
	"github.com/accountee/accountee/internal/platform/db"
	"github.com/accountee/accountee/internal/reports"
	"github.com/accountee/accountee/internal/shared"
	"github.com/accountee/accountee/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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

	reportsStore := reports.NewStore(pool)
	reportsCache := reports.NewCache(redisClient, 10*time.Minute)
	reportsService := reports.NewService(reportsStore, reportsCache)

	idempotencyStore := shared.NewIdempotencyStore(pool)

	overdueJob := jobs.NewOverdueScanJob(pool, reportsCache, logger, nil)
	warmupJob := jobs.NewCacheWarmupJob(pool, reportsService, logger, nil)
	cleanupJob := jobs.NewIdempotencyCleanupJob(idempotencyStore, logger, nil)

	overdueTask, err := jobs.NewOverdueScanTask(jobs.OverdueScanPayload{})
	if err != nil {
		logger.Error("build overdue task", slog.Any("error", err))
		os.Exit(1)
	}
	warmupTask, err := jobs.NewWarmCacheTask(jobs.WarmCachePayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}
	cleanupTask, err := jobs.NewCleanupIdempotencyTask(jobs.CleanupIdempotencyPayload{MaxAgeHours: 48})
	if err != nil {
		logger.Error("build cleanup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDocumentsScanOverdue, Handler: overdueJob.Handle},
			{Type: jobs.TaskReportsWarmCache, Handler: warmupJob.Handle},
			{Type: jobs.TaskCleanupIdempotency, Handler: cleanupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "5 0 * * *", Task: overdueTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 0 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 3 * * *", Task: cleanupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
