// internal/core/ports/tasks.go
package ports

import (
	"context"
	"time"
)

// ReorderAlertPayload carries the facts of a reorder threshold
// crossing to the background worker.
type ReorderAlertPayload struct {
	ItemID       int64  `json:"item_id"`
	StoreID      int64  `json:"store_id"`
	ItemName     string `json:"item_name"`
	CurrentStock int64  `json:"current_stock"`
	ReorderLevel int64  `json:"reorder_level"`
	TargetStock  int64  `json:"target_stock"`
}

// LedgerArchivePayload asks the worker to archive a store's full
// transaction history to object storage.
type LedgerArchivePayload struct {
	JobID       string    `json:"job_id"`
	StoreID     int64     `json:"store_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// TaskEnqueuer defines the port for handing work to the background
// queue. Enqueueing is best effort from the caller's point of view; a
// failed enqueue never rolls back the triggering operation.
type TaskEnqueuer interface {
	EnqueueReorderAlert(ctx context.Context, payload ReorderAlertPayload) error
	EnqueueLedgerArchive(ctx context.Context, payload LedgerArchivePayload) error
}
