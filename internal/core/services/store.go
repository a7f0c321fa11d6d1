// internal/core/services/store.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
)

// StoreService implements the store registry operations
type StoreService struct {
	repo   ports.StoreRepository
	logger *slog.Logger
}

// Statically assert interface compliance.
var _ ports.StoreService = (*StoreService)(nil)

// NewStoreService creates a new store service
func NewStoreService(repo ports.StoreRepository, logger *slog.Logger) *StoreService {
	return &StoreService{
		repo:   repo,
		logger: logger.With(slog.String("service", "store")),
	}
}

// Create registers a new store
func (s *StoreService) Create(ctx context.Context, store *domain.Store) error {
	if err := store.Validate(); err != nil {
		return err
	}
	store.PrepareForStorage()

	if err := s.repo.Save(ctx, store); err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	s.logger.InfoContext(ctx, "store created",
		slog.Int64("store_id", store.ID),
		slog.String("name", store.Name))

	return nil
}

// Update modifies an existing store
func (s *StoreService) Update(ctx context.Context, store *domain.Store) error {
	if store.ID <= 0 {
		return fmt.Errorf("%w: store id is required", domain.ErrInvalidArgument)
	}
	if err := store.Validate(); err != nil {
		return err
	}
	store.PrepareForStorage()

	if err := s.repo.Update(ctx, store); err != nil {
		return fmt.Errorf("failed to update store: %w", err)
	}

	return nil
}

// Get retrieves a single store
func (s *StoreService) Get(ctx context.Context, id int64) (*domain.Store, error) {
	return s.repo.FindByID(ctx, id)
}

// List retrieves all registered stores
func (s *StoreService) List(ctx context.Context) ([]domain.Store, error) {
	return s.repo.FindAll(ctx)
}

// Delete removes a store. Stores that still carry items are rejected
// with a conflict; their catalog has to be emptied first.
func (s *StoreService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}

	s.logger.InfoContext(ctx, "store removed from registry", slog.Int64("store_id", id))
	return nil
}
