package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/accountee/accountee/internal/jobs"
	"github.com/accountee/accountee/internal/reports"
)

// CacheWarmupJob precomputes the heavy report aggregates for each business so
// the first dashboard hit of the day is served from cache.
type CacheWarmupJob struct {
	Pool    *pgxpool.Pool
	Reports *reports.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewCacheWarmupJob initialises the warmup handler.
func NewCacheWarmupJob(pool *pgxpool.Pool, svc *reports.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *CacheWarmupJob {
	return &CacheWarmupJob{
		Pool:    pool,
		Reports: svc,
		Logger:  logger,
		Metrics: metrics,
		clock:   time.Now,
	}
}

// Handle executes the warmup.
func (j *CacheWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("cache warmup: handler not configured")
	}
	var payload WarmCachePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskReportsWarmCache)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting report cache warmup")

	businesses, err := j.businessIDs(ctx, payload.BusinessID)
	if err != nil {
		resultErr = err
		logger.Error("list businesses failed", slog.Any("error", err))
		return resultErr
	}

	now := j.now()
	from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	to := time.Date(now.Year(), 12, 31, 0, 0, 0, 0, now.Location())

	warmed := 0
	for _, businessID := range businesses {
		if _, err := j.Reports.ProfitLoss(ctx, businessID, from, to); err != nil {
			logger.Warn("warm profit and loss failed", slog.String("business_id", businessID), slog.Any("error", err))
			continue
		}
		if _, err := j.Reports.TaxSummary(ctx, businessID, from, to); err != nil {
			logger.Warn("warm tax summary failed", slog.String("business_id", businessID), slog.Any("error", err))
			continue
		}
		if _, err := j.Reports.StatusCounts(ctx, businessID); err != nil {
			logger.Warn("warm status counts failed", slog.String("business_id", businessID), slog.Any("error", err))
			continue
		}
		warmed++
	}

	logger.Info("completed report cache warmup",
		slog.Int("businesses", len(businesses)),
		slog.Int("warmed", warmed),
	)
	return resultErr
}

func (j *CacheWarmupJob) businessIDs(ctx context.Context, only string) ([]string, error) {
	if only != "" {
		return []string{only}, nil
	}
	if j.Pool == nil {
		return nil, errors.New("cache warmup: pool not configured")
	}
	rows, err := j.Pool.Query(ctx, `SELECT DISTINCT business_id FROM sales_documents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (j *CacheWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportsWarmCache))
	}
	return slog.Default().With(slog.String("job", TaskReportsWarmCache))
}

func (j *CacheWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *CacheWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now()
}
