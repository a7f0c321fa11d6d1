// internal/core/ports/repositories.go
package ports

import (
	"context"
	"time"

	"github.com/shelftrack/shelftrack-be/internal/core/domain"
)

// StoreRepository defines the persistence port for the store registry.
type StoreRepository interface {
	Save(ctx context.Context, store *domain.Store) error
	Update(ctx context.Context, store *domain.Store) error
	FindByID(ctx context.Context, id int64) (*domain.Store, error)
	FindAll(ctx context.Context) ([]domain.Store, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// ItemRepository defines the persistence port for the item catalog.
type ItemRepository interface {
	Save(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	FindByID(ctx context.Context, id int64) (*domain.Item, error)
	FindByStore(ctx context.Context, storeID int64) ([]domain.Item, error)
	FindByBarcode(ctx context.Context, storeID int64, barcode string) (*domain.Item, error)
	Delete(ctx context.Context, id int64) error
}

// HistoryFilter narrows a ledger history query. Nil fields mean no
// constraint; results are always newest first.
type HistoryFilter struct {
	Type  *domain.TransactionType
	From  *time.Time
	To    *time.Time
	Limit int
}

// LedgerRepository defines the persistence port for the append-only
// stock ledger. Append records a movement and updates the item's stock
// level atomically; implementations serialize concurrent appends to
// the same item.
type LedgerRepository interface {
	Append(ctx context.Context, itemID int64, txType domain.TransactionType,
		signedQuantity int64, notes string) (*domain.StockTransaction, error)
	FindByItem(ctx context.Context, itemID int64, filter HistoryFilter) ([]domain.StockTransaction, error)
	FindByStore(ctx context.Context, storeID int64, filter HistoryFilter) ([]domain.StockTransaction, error)
}
