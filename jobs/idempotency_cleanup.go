package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/accountee/accountee/internal/jobs"
	"github.com/accountee/accountee/internal/shared"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// IdempotencyCleanupJob prunes stale idempotency keys.
type IdempotencyCleanupJob struct {
	Store   *shared.IdempotencyStore
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewIdempotencyCleanupJob initialises the cleanup handler.
func NewIdempotencyCleanupJob(store *shared.IdempotencyStore, logger *slog.Logger, metrics *jobmetrics.Metrics) *IdempotencyCleanupJob {
	return &IdempotencyCleanupJob{Store: store, Logger: logger, Metrics: metrics}
}

// Handle executes the cleanup.
func (j *IdempotencyCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Store == nil {
		return errors.New("idempotency cleanup: handler not configured")
	}
	var payload CleanupIdempotencyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.MaxAgeHours <= 0 {
		payload.MaxAgeHours = 48
	}

	tracker := j.metrics().Track(TaskCleanupIdempotency)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("max_age_hours", payload.MaxAgeHours))
	if err := j.Store.Cleanup(ctx, time.Duration(payload.MaxAgeHours)*time.Hour); err != nil {
		resultErr = err
		logger.Error("idempotency cleanup failed", slog.Any("error", err))
		return resultErr
	}

	logger.Info("completed idempotency cleanup")
	return resultErr
}

func (j *IdempotencyCleanupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskCleanupIdempotency))
	}
	return slog.Default().With(slog.String("job", TaskCleanupIdempotency))
}

func (j *IdempotencyCleanupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
