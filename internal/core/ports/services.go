// internal/core/ports/services.go
package ports

import (
	"context"

	"github.com/shelftrack/shelftrack-be/internal/core/domain"
)

// StoreService defines the business operations on the store registry.
type StoreService interface {
	Create(ctx context.Context, store *domain.Store) error
	Update(ctx context.Context, store *domain.Store) error
	Get(ctx context.Context, id int64) (*domain.Store, error)
	List(ctx context.Context) ([]domain.Store, error)
	Delete(ctx context.Context, id int64) error
}

// ItemService defines the business operations on the item catalog,
// including barcode resolution and reorder derivation.
type ItemService interface {
	Create(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	Get(ctx context.Context, id int64) (*domain.Item, error)
	ListByStore(ctx context.Context, storeID int64) ([]domain.Item, error)
	FindByBarcode(ctx context.Context, storeID int64, barcode string) (*domain.Item, error)
	ReorderList(ctx context.Context, storeID int64) ([]domain.ReorderEntry, error)
	Delete(ctx context.Context, id int64) error
}

// AdjustParams describes a requested stock movement. Quantity is a
// magnitude for sales and deliveries and a signed delta for
// adjustments.
type AdjustParams struct {
	ItemID   int64
	Type     domain.TransactionType
	Quantity int64
	Notes    string
}

// LedgerService defines the business operations on the stock ledger.
type LedgerService interface {
	Adjust(ctx context.Context, params AdjustParams) (*domain.StockTransaction, error)
	HistoryForItem(ctx context.Context, itemID int64, filter HistoryFilter) ([]domain.StockTransaction, error)
	HistoryForStore(ctx context.Context, storeID int64, filter HistoryFilter) ([]domain.StockTransaction, error)
}
