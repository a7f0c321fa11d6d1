// internal/core/services/item.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
)

const reorderCacheTTL = 5 * time.Minute

func reorderCacheKey(storeID int64) string {
	return fmt.Sprintf("reorder:%d", storeID)
}

// ItemService implements the item catalog operations, barcode
// resolution and reorder list derivation.
type ItemService struct {
	repo   ports.ItemRepository
	stores ports.StoreRepository
	cache  ports.CacheRepository
	logger *slog.Logger
}

// Statically assert interface compliance.
var _ ports.ItemService = (*ItemService)(nil)

// NewItemService creates a new item service
func NewItemService(
	repo ports.ItemRepository,
	stores ports.StoreRepository,
	cache ports.CacheRepository,
	logger *slog.Logger,
) *ItemService {
	return &ItemService{
		repo:   repo,
		stores: stores,
		cache:  cache,
		logger: logger.With(slog.String("service", "item")),
	}
}

// Create adds an item to a store's catalog
func (s *ItemService) Create(ctx context.Context, item *domain.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	item.PrepareForStorage()

	if err := s.repo.Save(ctx, item); err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	s.invalidateReorderCache(ctx, item.StoreID)

	s.logger.InfoContext(ctx, "item created",
		slog.Int64("item_id", item.ID),
		slog.Int64("store_id", item.StoreID),
		slog.String("name", item.Name))

	return nil
}

// Update modifies an existing item. A changed CurrentStock is an
// administrative override that bypasses the ledger; it is applied
// as-is and logged, with no synthesized transaction.
func (s *ItemService) Update(ctx context.Context, item *domain.Item) error {
	if item.ID <= 0 {
		return fmt.Errorf("%w: item id is required", domain.ErrInvalidArgument)
	}

	existing, err := s.repo.FindByID(ctx, item.ID)
	if err != nil {
		return err
	}

	item.StoreID = existing.StoreID
	if err := item.Validate(); err != nil {
		return err
	}
	item.PrepareForStorage()

	if item.CurrentStock != existing.CurrentStock {
		s.logger.WarnContext(ctx, "administrative stock override",
			slog.Int64("item_id", item.ID),
			slog.Int64("from", existing.CurrentStock),
			slog.Int64("to", item.CurrentStock))
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	s.invalidateReorderCache(ctx, item.StoreID)
	return nil
}

// Get retrieves a single item
func (s *ItemService) Get(ctx context.Context, id int64) (*domain.Item, error) {
	return s.repo.FindByID(ctx, id)
}

// ListByStore retrieves a store's catalog
func (s *ItemService) ListByStore(ctx context.Context, storeID int64) ([]domain.Item, error) {
	if err := s.ensureStore(ctx, storeID); err != nil {
		return nil, err
	}
	return s.repo.FindByStore(ctx, storeID)
}

// FindByBarcode resolves a barcode within a store
func (s *ItemService) FindByBarcode(ctx context.Context, storeID int64, barcode string) (*domain.Item, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: barcode is required", domain.ErrInvalidArgument)
	}
	return s.repo.FindByBarcode(ctx, storeID, barcode)
}

// ReorderList derives the store's reorder list from a catalog
// snapshot, served through the cache.
func (s *ItemService) ReorderList(ctx context.Context, storeID int64) ([]domain.ReorderEntry, error) {
	if err := s.ensureStore(ctx, storeID); err != nil {
		return nil, err
	}

	var entries []domain.ReorderEntry
	key := reorderCacheKey(storeID)

	err := s.cache.GetOrSet(ctx, key, &entries, func() (interface{}, error) {
		items, err := s.repo.FindByStore(ctx, storeID)
		if err != nil {
			return nil, err
		}
		return domain.BuildReorderList(items), nil
	}, reorderCacheTTL)
	if err != nil {
		// Serve straight from the catalog when the cache is down.
		s.logger.WarnContext(ctx, "reorder cache unavailable",
			slog.Int64("store_id", storeID),
			slog.String("error", err.Error()))
		items, repoErr := s.repo.FindByStore(ctx, storeID)
		if repoErr != nil {
			return nil, repoErr
		}
		return domain.BuildReorderList(items), nil
	}

	return entries, nil
}

// Delete removes an item from the catalog. Ledger history for the
// item is preserved.
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.invalidateReorderCache(ctx, item.StoreID)

	s.logger.InfoContext(ctx, "item removed from catalog",
		slog.Int64("item_id", id),
		slog.Int64("store_id", item.StoreID))

	return nil
}

func (s *ItemService) ensureStore(ctx context.Context, storeID int64) error {
	exists, err := s.stores.Exists(ctx, storeID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: store %d", domain.ErrNotFound, storeID)
	}
	return nil
}

func (s *ItemService) invalidateReorderCache(ctx context.Context, storeID int64) {
	if err := s.cache.Delete(ctx, reorderCacheKey(storeID)); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate reorder cache",
			slog.Int64("store_id", storeID),
			slog.String("error", err.Error()))
	}
}
