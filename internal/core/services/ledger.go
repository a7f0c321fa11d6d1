// internal/core/services/ledger.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
)

// LedgerService implements the stock ledger operations. Every stock
// change flows through Adjust, which appends an immutable entry and
// moves the item's stock level in one atomic step.
type LedgerService struct {
	ledger   ports.LedgerRepository
	items    ports.ItemRepository
	stores   ports.StoreRepository
	cache    ports.CacheRepository
	enqueuer ports.TaskEnqueuer
	logger   *slog.Logger
}

// Statically assert interface compliance.
var _ ports.LedgerService = (*LedgerService)(nil)

// NewLedgerService creates a new ledger service. The enqueuer may be
// nil when no background worker is wired, e.g. in the seeder.
func NewLedgerService(
	ledger ports.LedgerRepository,
	items ports.ItemRepository,
	stores ports.StoreRepository,
	cache ports.CacheRepository,
	enqueuer ports.TaskEnqueuer,
	logger *slog.Logger,
) *LedgerService {
	return &LedgerService{
		ledger:   ledger,
		items:    items,
		stores:   stores,
		cache:    cache,
		enqueuer: enqueuer,
		logger:   logger.With(slog.String("service", "ledger")),
	}
}

// Adjust records a stock movement against an item. Sales and
// deliveries take a positive magnitude; adjustments carry their own
// sign. The movement is rejected when it would drive stock below zero.
func (s *LedgerService) Adjust(ctx context.Context, params ports.AdjustParams) (*domain.StockTransaction, error) {
	if params.ItemID <= 0 {
		return nil, fmt.Errorf("%w: item id is required", domain.ErrInvalidArgument)
	}

	signed, err := domain.SignedQuantity(params.Type, params.Quantity)
	if err != nil {
		return nil, err
	}

	entry, err := s.ledger.Append(ctx, params.ItemID, params.Type, signed, params.Notes)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "stock adjusted",
		slog.Int64("item_id", entry.ItemID),
		slog.String("type", string(entry.Type)),
		slog.Int64("quantity", entry.Quantity),
		slog.Int64("stock_before", entry.StockBefore),
		slog.Int64("stock_after", entry.StockAfter))

	s.invalidateReorderCache(ctx, entry.StoreID)
	s.maybeAlertReorder(ctx, entry)

	return entry, nil
}

// HistoryForItem returns an item's ledger entries, newest first. The
// history of a deleted item stays readable as long as entries exist.
func (s *LedgerService) HistoryForItem(ctx context.Context, itemID int64, filter ports.HistoryFilter) ([]domain.StockTransaction, error) {
	entries, err := s.ledger.FindByItem(ctx, itemID, filter)
	if err != nil {
		return nil, err
	}

	// An item with no surviving trace in either the catalog or the
	// ledger never existed as far as the API is concerned.
	if len(entries) == 0 {
		if _, err := s.items.FindByID(ctx, itemID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				unfiltered, lerr := s.ledger.FindByItem(ctx, itemID, ports.HistoryFilter{Limit: 1})
				if lerr == nil && len(unfiltered) > 0 {
					return entries, nil
				}
			}
			return nil, err
		}
	}

	return entries, nil
}

// HistoryForStore returns a store's ledger entries across all items,
// newest first, including entries of deleted items.
func (s *LedgerService) HistoryForStore(ctx context.Context, storeID int64, filter ports.HistoryFilter) ([]domain.StockTransaction, error) {
	exists, err := s.stores.Exists(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: store %d", domain.ErrNotFound, storeID)
	}

	return s.ledger.FindByStore(ctx, storeID, filter)
}

// maybeAlertReorder enqueues a reorder alert when the movement crossed
// the item's threshold downwards. Enqueue failures are logged, never
// propagated; the ledger entry is already committed.
func (s *LedgerService) maybeAlertReorder(ctx context.Context, entry *domain.StockTransaction) {
	if s.enqueuer == nil || entry.Quantity >= 0 {
		return
	}

	item, err := s.items.FindByID(ctx, entry.ItemID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load item for reorder check",
			slog.Int64("item_id", entry.ItemID),
			slog.String("error", err.Error()))
		return
	}

	crossed := entry.StockBefore > item.ReorderLevel && entry.StockAfter <= item.ReorderLevel
	if !crossed {
		return
	}

	payload := ports.ReorderAlertPayload{
		ItemID:       item.ID,
		StoreID:      item.StoreID,
		ItemName:     item.Name,
		CurrentStock: entry.StockAfter,
		ReorderLevel: item.ReorderLevel,
		TargetStock:  item.TargetStock,
	}
	if err := s.enqueuer.EnqueueReorderAlert(ctx, payload); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue reorder alert",
			slog.Int64("item_id", item.ID),
			slog.String("error", err.Error()))
		return
	}

	s.logger.InfoContext(ctx, "reorder alert enqueued",
		slog.Int64("item_id", item.ID),
		slog.Int64("current_stock", entry.StockAfter),
		slog.Int64("reorder_level", item.ReorderLevel))
}

func (s *LedgerService) invalidateReorderCache(ctx context.Context, storeID int64) {
	if err := s.cache.Delete(ctx, reorderCacheKey(storeID)); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate reorder cache",
			slog.Int64("store_id", storeID),
			slog.String("error", err.Error()))
	}
}
