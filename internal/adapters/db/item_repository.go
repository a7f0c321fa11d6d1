// internal/adapters/db/item_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
)

const pgUniqueViolation = "23505"

const itemColumns = `id, store_id, name, sku, barcode, unit,
	current_stock, reorder_level, target_stock, created_at, updated_at`

// itemRepository implements ports.ItemRepository
type itemRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewItemRepository creates a new item repository
func NewItemRepository(database *Database, logger *slog.Logger) ports.ItemRepository {
	return &itemRepository{
		db:     database,
		logger: logger.With(slog.String("repository", "item")),
	}
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	err := row.Scan(
		&item.ID, &item.StoreID, &item.Name, &item.SKU, &item.Barcode, &item.Unit,
		&item.CurrentStock, &item.ReorderLevel, &item.TargetStock,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Save creates a new catalog item
func (r *itemRepository) Save(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (
			store_id, name, sku, barcode, unit,
			current_stock, reorder_level, target_stock, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		item.StoreID, item.Name, item.SKU, item.Barcode, item.Unit,
		item.CurrentStock, item.ReorderLevel, item.TargetStock,
		item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return fmt.Errorf("%w: barcode already in use in store %d",
					domain.ErrConflict, item.StoreID)
			case pgFKViolation:
				return fmt.Errorf("%w: store %d", domain.ErrNotFound, item.StoreID)
			}
		}
		return fmt.Errorf("%w: failed to save item: %v", domain.ErrStorageFailure, err)
	}

	r.logger.DebugContext(ctx, "item saved",
		slog.Int64("item_id", item.ID),
		slog.Int64("store_id", item.StoreID))

	return nil
}

// Update updates an existing item, including administrative stock
// overrides. StoreID is immutable.
func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	query := `
		UPDATE items SET
			name = $2, sku = $3, barcode = $4, unit = $5,
			current_stock = $6, reorder_level = $7, target_stock = $8, updated_at = $9
		WHERE id = $1
		RETURNING store_id, created_at`

	err := r.db.QueryRow(ctx, query,
		item.ID, item.Name, item.SKU, item.Barcode, item.Unit,
		item.CurrentStock, item.ReorderLevel, item.TargetStock, item.UpdatedAt,
	).Scan(&item.StoreID, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: item %d", domain.ErrNotFound, item.ID)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: barcode already in use in store %d",
				domain.ErrConflict, item.StoreID)
		}
		return fmt.Errorf("%w: failed to update item: %v", domain.ErrStorageFailure, err)
	}

	return nil
}

// FindByID retrieves an item by its id
func (r *itemRepository) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: item %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to find item: %v", domain.ErrStorageFailure, err)
	}

	return item, nil
}

// FindByStore retrieves a store's catalog in insertion order
func (r *itemRepository) FindByStore(ctx context.Context, storeID int64) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE store_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list items: %v", domain.ErrStorageFailure, err)
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan item: %v", domain.ErrStorageFailure, err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate items: %v", domain.ErrStorageFailure, err)
	}

	return items, nil
}

// FindByBarcode resolves a barcode within a single store. The partial
// unique index on (store_id, barcode) guarantees at most one match.
func (r *itemRepository) FindByBarcode(ctx context.Context, storeID int64, barcode string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE store_id = $1 AND barcode = $2`

	item, err := scanItem(r.db.QueryRow(ctx, query, storeID, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: barcode %q in store %d", domain.ErrNotFound, barcode, storeID)
		}
		return nil, fmt.Errorf("%w: failed to resolve barcode: %v", domain.ErrStorageFailure, err)
	}

	return item, nil
}

// Delete removes an item from the catalog. Its ledger entries are
// intentionally left behind; the row lock serializes the delete
// against in-flight stock adjustments.
func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		var locked int64
		if err := tx.QueryRow(ctx,
			`SELECT id FROM items WHERE id = $1 FOR UPDATE`, id,
		).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: item %d", domain.ErrNotFound, id)
			}
			return fmt.Errorf("%w: failed to lock item: %v", domain.ErrStorageFailure, err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
			return fmt.Errorf("%w: failed to delete item: %v", domain.ErrStorageFailure, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "item deleted", slog.Int64("item_id", id))
	return nil
}
