package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/accountee/accountee/internal/documents"
	jobmetrics "github.com/accountee/accountee/internal/jobs"
	"github.com/accountee/accountee/internal/reports"
)

// Execer is the slice of pgxpool.Pool the scan needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// OverdueScanJob moves awaiting-payment invoices past their due date to overdue.
type OverdueScanJob struct {
	Pool    Execer
	Cache   *reports.Cache
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewOverdueScanJob initialises the overdue scan handler.
func NewOverdueScanJob(pool Execer, cache *reports.Cache, logger *slog.Logger, metrics *jobmetrics.Metrics) *OverdueScanJob {
	return &OverdueScanJob{
		Pool:    pool,
		Cache:   cache,
		Logger:  logger,
		Metrics: metrics,
		clock:   time.Now,
	}
}

// Handle executes the overdue scan.
func (j *OverdueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("overdue scan: handler not configured")
	}
	var payload OverdueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskDocumentsScanOverdue)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	if payload.BusinessID != "" {
		logger = logger.With(slog.String("business_id", payload.BusinessID))
	}
	logger.Info("starting overdue scan")

	updated, err := j.scan(ctx, payload)
	if err != nil {
		resultErr = err
		logger.Error("overdue scan failed", slog.Any("error", err))
		return resultErr
	}

	if updated > 0 && j.Cache != nil {
		if err := j.Cache.Bump(ctx); err != nil {
			logger.Warn("report cache bump failed", slog.Any("error", err))
		}
	}

	logger.Info("completed overdue scan", slog.Int64("updated", updated))
	return resultErr
}

func (j *OverdueScanJob) scan(ctx context.Context, payload OverdueScanPayload) (int64, error) {
	if j.Pool == nil {
		return 0, errors.New("overdue scan: pool not configured")
	}
	now := j.now()
	// A document is overdue once its due date lies before local midnight today.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	query := `UPDATE sales_documents
		SET status = $1, updated_at = NOW()
		WHERE type = $2 AND status = $3 AND due_date < $4`
	args := []any{documents.StatusOverdue, documents.TypeInvoice, documents.StatusAwaitingPayment, today}
	if payload.BusinessID != "" {
		query += ` AND business_id = $5`
		args = append(args, payload.BusinessID)
	}

	tag, err := j.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (j *OverdueScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDocumentsScanOverdue))
	}
	return slog.Default().With(slog.String("job", TaskDocumentsScanOverdue))
}

func (j *OverdueScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *OverdueScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now()
}
