// internal/workers/tasks.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shelftrack/shelftrack-be/internal/core/ports"
)

// Task type names shared by the API and the worker.
const (
	TypeReorderAlert  = "reorder:alert"
	TypeLedgerArchive = "ledger:archive"
)

// Queue names, highest priority first.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Enqueuer implements ports.TaskEnqueuer over an asynq client.
type Enqueuer struct {
	client *asynq.Client
	logger *slog.Logger
}

// Statically assert interface compliance.
var _ ports.TaskEnqueuer = (*Enqueuer)(nil)

// NewEnqueuer creates a new task enqueuer
func NewEnqueuer(client *asynq.Client, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{
		client: client,
		logger: logger.With(slog.String("component", "enqueuer")),
	}
}

// EnqueueReorderAlert queues a reorder threshold alert
func (e *Enqueuer) EnqueueReorderAlert(ctx context.Context, payload ports.ReorderAlertPayload) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal reorder alert payload: %w", err)
	}

	task := asynq.NewTask(TypeReorderAlert, b)
	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue reorder alert: %w", err)
	}

	e.logger.DebugContext(ctx, "reorder alert queued",
		slog.String("task_id", info.ID),
		slog.Int64("item_id", payload.ItemID))

	return nil
}

// EnqueueLedgerArchive queues an archive of a store's ledger history
func (e *Enqueuer) EnqueueLedgerArchive(ctx context.Context, payload ports.LedgerArchivePayload) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal archive payload: %w", err)
	}

	task := asynq.NewTask(TypeLedgerArchive, b)
	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.TaskID(payload.JobID),
		asynq.MaxRetry(5),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(7*24*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue ledger archive: %w", err)
	}

	e.logger.InfoContext(ctx, "ledger archive queued",
		slog.String("task_id", info.ID),
		slog.Int64("store_id", payload.StoreID))

	return nil
}
