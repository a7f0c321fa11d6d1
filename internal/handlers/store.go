// internal/handlers/store.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
)

// StoreHandler handles store registry HTTP requests
type StoreHandler struct {
	service ports.StoreService
	logger  *slog.Logger
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(service ports.StoreService, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "store")),
	}
}

// List handles GET /api/stores
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stores, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list stores",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err, "Failed to list stores")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, stores)
}

// Get handles GET /api/stores/{id}
func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid store ID")
		return
	}

	store, err := h.service.Get(ctx, id)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to retrieve store")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, store)
}

// Create handles POST /api/stores
func (h *StoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req StoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	store := req.ToDomain()
	if err := h.service.Create(ctx, store); err != nil {
		h.logger.ErrorContext(ctx, "failed to create store",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err, "Failed to create store")
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, store)
}

// Update handles PUT /api/stores/{id}
func (h *StoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid store ID")
		return
	}

	var req StoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	store := req.ToDomain()
	store.ID = id
	if err := h.service.Update(ctx, store); err != nil {
		respondDomainError(w, h.logger, err, "Failed to update store")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, store)
}

// Delete handles DELETE /api/stores/{id}
func (h *StoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid store ID")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		respondDomainError(w, h.logger, err, "Failed to delete store")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Store deleted successfully",
		"id":      id,
	})
}

// parseID reads a positive int64 path value
func parseID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// StoreRequest represents the request body for creating or updating a store
type StoreRequest struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// Validate validates the store request
func (r *StoreRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *StoreRequest) ToDomain() *domain.Store {
	store := &domain.Store{
		Name:     r.Name,
		Location: r.Location,
		IsActive: true,
	}
	if r.IsActive != nil {
		store.IsActive = *r.IsActive
	}
	return store
}
