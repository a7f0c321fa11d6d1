// internal/adapters/db/store_repository.go
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

const pgFKViolation = "23503"

// storeRepository implements ports.StoreRepository
type storeRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewStoreRepository creates a new store repository
func NewStoreRepository(database *Database, logger *slog.Logger) ports.StoreRepository {
	return &storeRepository{
		db:     database,
		logger: logger.With(slog.String("repository", "store")),
	}
}

// Save creates a new store
func (r *storeRepository) Save(ctx context.Context, store *domain.Store) error {
	query := `
		INSERT INTO stores (name, location, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		store.Name, store.Location, store.IsActive, store.CreatedAt, store.UpdatedAt,
	).Scan(&store.ID)
	if err != nil {
		return fmt.Errorf("%w: failed to save store: %v", domain.ErrStorageFailure, err)
	}

	r.logger.DebugContext(ctx, "store saved",
		slog.Int64("store_id", store.ID),
		slog.String("name", store.Name))

	return nil
}

// Update updates an existing store
func (r *storeRepository) Update(ctx context.Context, store *domain.Store) error {
	query := `
		UPDATE stores SET
			name = $2, location = $3, is_active = $4, updated_at = $5
		WHERE id = $1
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		store.ID, store.Name, store.Location, store.IsActive, store.UpdatedAt,
	).Scan(&store.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: store %d", domain.ErrNotFound, store.ID)
		}
		return fmt.Errorf("%w: failed to update store: %v", domain.ErrStorageFailure, err)
	}

	return nil
}

// FindByID retrieves a store by its id
func (r *storeRepository) FindByID(ctx context.Context, id int64) (*domain.Store, error) {
	query := `
		SELECT id, name, location, is_active, created_at, updated_at
		FROM stores
		WHERE id = $1`

	var store domain.Store
	err := r.db.QueryRow(ctx, query, id).Scan(
		&store.ID, &store.Name, &store.Location,
		&store.IsActive, &store.CreatedAt, &store.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: store %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to find store: %v", domain.ErrStorageFailure, err)
	}

	return &store, nil
}

// FindAll retrieves every registered store
func (r *storeRepository) FindAll(ctx context.Context) ([]domain.Store, error) {
	query := `
		SELECT id, name, location, is_active, created_at, updated_at
		FROM stores
		ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list stores: %v", domain.ErrStorageFailure, err)
	}
	defer rows.Close()

	stores := make([]domain.Store, 0)
	for rows.Next() {
		var store domain.Store
		if err := rows.Scan(
			&store.ID, &store.Name, &store.Location,
			&store.IsActive, &store.CreatedAt, &store.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: failed to scan store: %v", domain.ErrStorageFailure, err)
		}
		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate stores: %v", domain.ErrStorageFailure, err)
	}

	return stores, nil
}

// Delete removes a store. The items foreign key is ON DELETE RESTRICT,
// so a store that still carries items comes back as a conflict.
func (r *storeRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgFKViolation {
			return fmt.Errorf("%w: store %d still has items", domain.ErrConflict, id)
		}
		return fmt.Errorf("%w: failed to delete store: %v", domain.ErrStorageFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: store %d", domain.ErrNotFound, id)
	}

	r.logger.InfoContext(ctx, "store deleted", slog.Int64("store_id", id))
	return nil
}

// Exists reports whether a store exists
func (r *storeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM stores WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: failed to check store: %v", domain.ErrStorageFailure, err)
	}
	return exists, nil
}
