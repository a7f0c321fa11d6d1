// internal/workers/archive_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shelftrack/shelftrack-be/internal/adapters/storage"
	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
)

// ArchiveProcessor writes a CSV snapshot of a store's full transaction
// history to object storage.
type ArchiveProcessor struct {
	ledger  ports.LedgerService
	storage storage.StorageClient
	logger  *slog.Logger
}

// NewArchiveProcessor creates a new archive processor
func NewArchiveProcessor(ledger ports.LedgerService, storageClient storage.StorageClient, logger *slog.Logger) *ArchiveProcessor {
	return &ArchiveProcessor{
		ledger:  ledger,
		storage: storageClient,
		logger:  logger.With(slog.String("processor", "archive")),
	}
}

// ProcessTask handles a ledger:archive task
func (p *ArchiveProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ports.LedgerArchivePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "archiving store ledger",
		slog.String("job_id", payload.JobID),
		slog.Int64("store_id", payload.StoreID))

	entries, err := p.ledger.HistoryForStore(ctx, payload.StoreID, ports.HistoryFilter{})
	if err != nil {
		// A store deleted between enqueue and processing is not worth retrying.
		if errors.Is(err, domain.ErrNotFound) {
			p.logger.WarnContext(ctx, "store vanished before archive",
				slog.Int64("store_id", payload.StoreID))
			return fmt.Errorf("store %d not found: %w", payload.StoreID, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to load store history: %w", err)
	}

	data, err := buildArchiveCSV(entries)
	if err != nil {
		return fmt.Errorf("failed to build archive: %w", err)
	}

	key := fmt.Sprintf("archives/store-%d/%s.csv", payload.StoreID, payload.JobID)
	location, err := p.storage.Upload(ctx, key, bytes.NewReader(data), "text/csv")
	if err != nil {
		return fmt.Errorf("failed to upload archive: %w", err)
	}

	p.logger.InfoContext(ctx, "store ledger archived",
		slog.String("job_id", payload.JobID),
		slog.Int64("store_id", payload.StoreID),
		slog.Int("entries", len(entries)),
		slog.String("location", location))

	return nil
}

func buildArchiveCSV(entries []domain.StockTransaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"id", "item_id", "store_id", "type", "quantity",
		"stock_before", "stock_after", "notes", "transaction_date",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, e := range entries {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			strconv.FormatInt(e.ItemID, 10),
			strconv.FormatInt(e.StoreID, 10),
			string(e.Type),
			strconv.FormatInt(e.Quantity, 10),
			strconv.FormatInt(e.StockBefore, 10),
			strconv.FormatInt(e.StockAfter, 10),
			e.Notes,
			e.TransactionDate.UTC().Format(time.RFC3339Nano),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
