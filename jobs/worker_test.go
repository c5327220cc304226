package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountee/accountee/internal/documents"
)

func TestNewWorkerRegistersHandlersAndCron(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	overdueTask, err := NewOverdueScanTask(OverdueScanPayload{})
	require.NoError(t, err)
	assert.Equal(t, TaskDocumentsScanOverdue, overdueTask.Type())

	worker, err := NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:6379"},
		Logger:    logger,
		Handlers: []TaskHandler{
			{Type: TaskDocumentsScanOverdue, Handler: func(context.Context, *asynq.Task) error { return nil }},
			{Type: "", Handler: nil},
		},
		Cron: []CronRegistration{
			{Spec: "5 0 * * *", Task: overdueTask},
			{Spec: "", Task: nil},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, worker)
}

func TestOverdueScanSkipsRetryOnBadPayload(t *testing.T) {
	job := NewOverdueScanJob(nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	task := asynq.NewTask(TaskDocumentsScanOverdue, []byte("not-json"))
	err := job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestOverdueScanRequiresPool(t *testing.T) {
	job := NewOverdueScanJob(nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	task, err := NewOverdueScanTask(OverdueScanPayload{BusinessID: "biz-1"})
	require.NoError(t, err)
	err = job.Handle(context.Background(), task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool not configured")
}

type captureExecer struct {
	sql  string
	args []any
	tag  pgconn.CommandTag
	err  error
}

func (c *captureExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.sql = sql
	c.args = args
	return c.tag, c.err
}

func TestOverdueScanUpdatesPastDueInvoices(t *testing.T) {
	exec := &captureExecer{tag: pgconn.NewCommandTag("UPDATE 2")}
	job := NewOverdueScanJob(exec, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	job.clock = func() time.Time {
		return time.Date(2024, 5, 10, 14, 30, 0, 0, time.Local)
	}

	updated, err := job.scan(context.Background(), OverdueScanPayload{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	assert.Contains(t, exec.sql, "UPDATE sales_documents")
	assert.Contains(t, exec.sql, "type = $2")
	assert.NotContains(t, exec.sql, "doc_type")
	assert.Contains(t, exec.sql, "due_date < $4")

	require.Len(t, exec.args, 4)
	assert.Equal(t, documents.StatusOverdue, exec.args[0])
	assert.Equal(t, documents.TypeInvoice, exec.args[1])
	assert.Equal(t, documents.StatusAwaitingPayment, exec.args[2])
	// Due dates compare against local midnight of the scan day.
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local), exec.args[3])
}

func TestOverdueScanFiltersByBusiness(t *testing.T) {
	exec := &captureExecer{tag: pgconn.NewCommandTag("UPDATE 0")}
	job := NewOverdueScanJob(exec, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	updated, err := job.scan(context.Background(), OverdueScanPayload{BusinessID: "biz-1"})
	require.NoError(t, err)
	assert.Zero(t, updated)

	assert.Contains(t, exec.sql, "business_id = $5")
	require.Len(t, exec.args, 5)
	assert.Equal(t, "biz-1", exec.args[4])
}

func TestCleanupPayloadDefaultsApplied(t *testing.T) {
	task, err := NewCleanupIdempotencyTask(CleanupIdempotencyPayload{})
	require.NoError(t, err)
	assert.Equal(t, TaskCleanupIdempotency, task.Type())

	job := NewIdempotencyCleanupJob(nil, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	err = job.Handle(context.Background(), task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
