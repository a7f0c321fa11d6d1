// internal/handlers/item.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
)

// ItemHandler handles item catalog HTTP requests
type ItemHandler struct {
	service ports.ItemService
	logger  *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(service ports.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "item")),
	}
}

// ListByStore handles GET /api/stores/{storeId}/items
func (h *ItemHandler) ListByStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := parseID(r, "storeId")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid store ID")
		return
	}

	items, err := h.service.ListByStore(ctx, storeID)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to list items")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, items)
}

// Get handles GET /api/items/{id}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid item ID")
		return
	}

	item, err := h.service.Get(ctx, id)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to retrieve item")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, item)
}

// Create handles POST /api/stores/{storeId}/items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := parseID(r, "storeId")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid store ID")
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	item := req.ToDomain(storeID)
	if err := h.service.Create(ctx, item); err != nil {
		h.logger.ErrorContext(ctx, "failed to create item",
			slog.Int64("store_id", storeID),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err, "Failed to create item")
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, item)
}

// Update handles PUT /api/items/{id}
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	// Store assignment is immutable; the service re-reads it from the
	// persisted row.
	item := req.ToDomain(0)
	item.ID = id
	if err := h.service.Update(ctx, item); err != nil {
		respondDomainError(w, h.logger, err, "Failed to update item")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		respondDomainError(w, h.logger, err, "Failed to delete item")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Item deleted successfully",
		"id":      id,
	})
}

// FindByBarcode handles GET /api/stores/{storeId}/items/barcode/{barcode}
func (h *ItemHandler) FindByBarcode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := parseID(r, "storeId")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid store ID")
		return
	}

	barcode := r.PathValue("barcode")

	item, err := h.service.FindByBarcode(ctx, storeID, barcode)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to resolve barcode")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, item)
}

// ReorderList handles GET /api/stores/{storeId}/reorder-list
func (h *ItemHandler) ReorderList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := parseID(r, "storeId")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid store ID")
		return
	}

	entries, err := h.service.ReorderList(ctx, storeID)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to build reorder list")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, entries)
}

// ItemRequest represents the request body for creating or updating an item
type ItemRequest struct {
	Name         string `json:"name"`
	SKU          string `json:"sku,omitempty"`
	Barcode      string `json:"barcode,omitempty"`
	Unit         string `json:"unit,omitempty"`
	CurrentStock int64  `json:"currentStock"`
	ReorderLevel int64  `json:"reorderLevel"`
	TargetStock  int64  `json:"targetStock"`
}

// Validate validates the item request
func (r *ItemRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.CurrentStock < 0 {
		return fmt.Errorf("currentStock cannot be negative")
	}
	if r.ReorderLevel < 0 {
		return fmt.Errorf("reorderLevel cannot be negative")
	}
	if r.TargetStock < 0 {
		return fmt.Errorf("targetStock cannot be negative")
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *ItemRequest) ToDomain(storeID int64) *domain.Item {
	item := &domain.Item{
		StoreID:      storeID,
		Name:         r.Name,
		SKU:          r.SKU,
		Unit:         r.Unit,
		CurrentStock: r.CurrentStock,
		ReorderLevel: r.ReorderLevel,
		TargetStock:  r.TargetStock,
	}
	if r.Barcode != "" {
		barcode := r.Barcode
		item.Barcode = &barcode
	}
	return item
}
