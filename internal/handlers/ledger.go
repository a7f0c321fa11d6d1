// internal/handlers/ledger.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
)

// LedgerHandler handles stock ledger HTTP requests
type LedgerHandler struct {
	service  ports.LedgerService
	enqueuer ports.TaskEnqueuer
	logger   *slog.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(service ports.LedgerService, enqueuer ports.TaskEnqueuer, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		service:  service,
		enqueuer: enqueuer,
		logger:   logger.With(slog.String("handler", "ledger")),
	}
}

// Adjust handles POST /api/items/{id}/transactions
func (h *LedgerHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := parseID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	txn, err := h.service.Adjust(ctx, ports.AdjustParams{
		ItemID:   itemID,
		Type:     domain.TransactionType(req.Type),
		Quantity: req.Quantity,
		Notes:    req.Notes,
	})
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to record transaction")
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, txn)
}

// HistoryForItem handles GET /api/items/{id}/transactions
func (h *LedgerHandler) HistoryForItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := parseID(r, "id")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid item ID")
		return
	}

	filter, err := parseHistoryFilter(r)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	history, err := h.service.HistoryForItem(ctx, itemID, filter)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to retrieve transaction history")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, history)
}

// HistoryForStore handles GET /api/stores/{storeId}/transactions
func (h *LedgerHandler) HistoryForStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := parseID(r, "storeId")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid store ID")
		return
	}

	filter, err := parseHistoryFilter(r)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	history, err := h.service.HistoryForStore(ctx, storeID, filter)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to retrieve transaction history")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, history)
}

// Archive handles POST /api/stores/{storeId}/archive. The export runs
// in the background; the response only carries the job id.
func (h *LedgerHandler) Archive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := parseID(r, "storeId")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid store ID")
		return
	}

	payload := ports.LedgerArchivePayload{
		JobID:       uuid.New().String(),
		StoreID:     storeID,
		RequestedAt: time.Now().UTC(),
	}

	if err := h.enqueuer.EnqueueLedgerArchive(ctx, payload); err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue archive job",
			slog.Int64("store_id", storeID),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to start archive job")
		return
	}

	h.logger.InfoContext(ctx, "archive job enqueued",
		slog.Int64("store_id", storeID),
		slog.String("job_id", payload.JobID))

	respondJSON(w, h.logger, http.StatusAccepted, map[string]interface{}{
		"message": "Archive started",
		"job_id":  payload.JobID,
		"status":  "processing",
	})
}

// AdjustRequest represents the request body for recording a stock movement
type AdjustRequest struct {
	Type     string `json:"type"`
	Quantity int64  `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// Validate validates the adjust request
func (r *AdjustRequest) Validate() error {
	if !domain.TransactionType(r.Type).Valid() {
		return fmt.Errorf("type must be one of SALE, DELIVERY, ADJUSTMENT")
	}
	if r.Quantity == 0 {
		return fmt.Errorf("quantity cannot be zero")
	}
	return nil
}

// parseHistoryFilter reads the type/from/to/limit query parameters.
// Dates accept RFC 3339 or plain YYYY-MM-DD.
func parseHistoryFilter(r *http.Request) (ports.HistoryFilter, error) {
	var filter ports.HistoryFilter
	q := r.URL.Query()

	if raw := q.Get("type"); raw != "" {
		t := domain.TransactionType(raw)
		if !t.Valid() {
			return filter, fmt.Errorf("invalid transaction type %q", raw)
		}
		filter.Type = &t
	}

	if raw := q.Get("from"); raw != "" {
		t, err := parseHistoryDate(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid from date %q", raw)
		}
		filter.From = &t
	}

	if raw := q.Get("to"); raw != "" {
		t, err := parseHistoryDate(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid to date %q", raw)
		}
		filter.To = &t
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, fmt.Errorf("limit must be a positive integer")
		}
		filter.Limit = limit
	}

	return filter, nil
}

func parseHistoryDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
