package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDocumentsScanOverdue moves past-due invoices to the overdue status.
	TaskDocumentsScanOverdue = "documents:scan_overdue"
	// TaskReportsWarmCache precomputes report aggregates into the cache.
	TaskReportsWarmCache = "reports:warm_cache"
	// TaskCleanupIdempotency prunes stale idempotency keys.
	TaskCleanupIdempotency = "shared:cleanup_idempotency"
)

// OverdueScanPayload configures a single overdue scan run.
type OverdueScanPayload struct {
	// BusinessID limits the scan to one business. Empty scans all.
	BusinessID string `json:"business_id,omitempty"`
}

// NewOverdueScanTask constructs an Asynq task for the nightly scan.
func NewOverdueScanTask(payload OverdueScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDocumentsScanOverdue, data), nil
}

// WarmCachePayload configures a report cache warmup run.
type WarmCachePayload struct {
	BusinessID string `json:"business_id,omitempty"`
}

// NewWarmCacheTask constructs an Asynq task for report cache warmup.
func NewWarmCacheTask(payload WarmCachePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmCache, data), nil
}

// CleanupIdempotencyPayload configures the idempotency key pruning run.
type CleanupIdempotencyPayload struct {
	MaxAgeHours int `json:"max_age_hours,omitempty"`
}

// NewCleanupIdempotencyTask constructs an Asynq task for key pruning.
func NewCleanupIdempotencyTask(payload CleanupIdempotencyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCleanupIdempotency, data), nil
}
