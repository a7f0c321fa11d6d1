// internal/adapters/db/ledger_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
)

// ledgerRepository implements ports.LedgerRepository
type ledgerRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(database *Database, logger *slog.Logger) ports.LedgerRepository {
	return &ledgerRepository{
		db:     database,
		logger: logger.With(slog.String("repository", "ledger")),
	}
}

// Append records a stock movement. The item row is locked with
// SELECT ... FOR UPDATE so concurrent appends on the same item
// serialize; the entry insert and the stock update commit together or
// not at all. transaction_date comes from clock_timestamp() taken
// under the lock, which keeps per-item dates non-decreasing in commit
// order.
func (r *ledgerRepository) Append(ctx context.Context, itemID int64, txType domain.TransactionType,
	signedQuantity int64, notes string) (*domain.StockTransaction, error) {

	entry := &domain.StockTransaction{
		ItemID:   itemID,
		Type:     txType,
		Quantity: signedQuantity,
		Notes:    notes,
	}

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		var current int64
		err := tx.QueryRow(ctx,
			`SELECT store_id, current_stock FROM items WHERE id = $1 FOR UPDATE`,
			itemID,
		).Scan(&entry.StoreID, &current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: item %d", domain.ErrNotFound, itemID)
			}
			return fmt.Errorf("%w: failed to lock item: %v", domain.ErrStorageFailure, err)
		}

		entry.StockBefore = current
		entry.StockAfter = current + signedQuantity
		if entry.StockAfter < 0 {
			return fmt.Errorf("%w: movement of %d would drive stock below zero (current %d)",
				domain.ErrInvalidArgument, signedQuantity, current)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO stock_transactions (
				item_id, store_id, type, quantity,
				stock_before, stock_after, notes, transaction_date
			) VALUES ($1, $2, $3, $4, $5, $6, $7, clock_timestamp())
			RETURNING id, transaction_date`,
			entry.ItemID, entry.StoreID, entry.Type, entry.Quantity,
			entry.StockBefore, entry.StockAfter, entry.Notes,
		).Scan(&entry.ID, &entry.TransactionDate)
		if err != nil {
			return fmt.Errorf("%w: failed to append ledger entry: %v", domain.ErrStorageFailure, err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE items SET current_stock = $2, updated_at = now() WHERE id = $1`,
			itemID, entry.StockAfter,
		)
		if err != nil {
			return fmt.Errorf("%w: failed to update stock level: %v", domain.ErrStorageFailure, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.DebugContext(ctx, "ledger entry appended",
		slog.Int64("item_id", entry.ItemID),
		slog.String("type", string(entry.Type)),
		slog.Int64("quantity", entry.Quantity),
		slog.Int64("stock_after", entry.StockAfter))

	return entry, nil
}

// FindByItem returns an item's history, newest first
func (r *ledgerRepository) FindByItem(ctx context.Context, itemID int64, filter ports.HistoryFilter) ([]domain.StockTransaction, error) {
	return r.findHistory(ctx, squirrel.Eq{"item_id": itemID}, filter)
}

// FindByStore returns a store's history across all items, newest
// first. Entries of deleted items are included.
func (r *ledgerRepository) FindByStore(ctx context.Context, storeID int64, filter ports.HistoryFilter) ([]domain.StockTransaction, error) {
	return r.findHistory(ctx, squirrel.Eq{"store_id": storeID}, filter)
}

func (r *ledgerRepository) findHistory(ctx context.Context, scope squirrel.Sqlizer, filter ports.HistoryFilter) ([]domain.StockTransaction, error) {
	builder := squirrel.
		Select("id", "item_id", "store_id", "type", "quantity",
			"stock_before", "stock_after", "notes", "transaction_date").
		From("stock_transactions").
		Where(scope).
		OrderBy("transaction_date DESC", "id DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Type != nil {
		builder = builder.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"transaction_date": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.LtOrEq{"transaction_date": *filter.To})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build history query: %v", domain.ErrStorageFailure, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query history: %v", domain.ErrStorageFailure, err)
	}
	defer rows.Close()

	entries := make([]domain.StockTransaction, 0)
	for rows.Next() {
		var entry domain.StockTransaction
		if err := rows.Scan(
			&entry.ID, &entry.ItemID, &entry.StoreID, &entry.Type, &entry.Quantity,
			&entry.StockBefore, &entry.StockAfter, &entry.Notes, &entry.TransactionDate,
		); err != nil {
			return nil, fmt.Errorf("%w: failed to scan ledger entry: %v", domain.ErrStorageFailure, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate history: %v", domain.ErrStorageFailure, err)
	}

	return entries, nil
}
