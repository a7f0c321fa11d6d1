// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/shelftrack/shelftrack-be/internal/adapters/redis_adapter"
	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
)

// ExportHandler produces downloadable snapshots of a store's catalog
// and reorder list.
type ExportHandler struct {
	items  ports.ItemService
	cache  ports.CacheRepository
	logger *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(items ports.ItemService, cache ports.CacheRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		items:  items,
		cache:  cache,
		logger: logger.With(slog.String("handler", "export")),
	}
}

// StoreExportResponse is the JSON export envelope
type StoreExportResponse struct {
	StoreID    int64                `json:"storeId"`
	ExportDate time.Time            `json:"exportDate"`
	Items      []domain.Item        `json:"items"`
	Reorder    []domain.ReorderEntry `json:"reorder"`
	TotalItems int                  `json:"totalItems"`
}

// ExportExcel handles GET /api/stores/{storeId}/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := parseID(r, "storeId")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid store ID")
		return
	}

	items, reorder, err := h.fetchStoreData(ctx, storeID)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to retrieve store data")
		return
	}

	excelData, err := h.generateExcelFile(items, reorder)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file",
			slog.Int64("store_id", storeID),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("store_%d_export_%s.xlsx", storeID, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "excel export completed",
		slog.Int64("store_id", storeID),
		slog.Int("items", len(items)),
		slog.String("filename", filename))
}

// ExportJSON handles GET /api/stores/{storeId}/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := parseID(r, "storeId")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid store ID")
		return
	}

	cacheKey := redis_a.BuildKey(redis_a.PrefixExport, "json", strconv.FormatInt(storeID, 10))
	var cachedData []byte
	if err := h.cache.Get(ctx, cacheKey, &cachedData); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Length", strconv.Itoa(len(cachedData)))

		if _, err := w.Write(cachedData); err != nil {
			h.logger.ErrorContext(ctx, "failed to write cached JSON response",
				slog.String("error", err.Error()))
		}
		return
	}

	items, reorder, err := h.fetchStoreData(ctx, storeID)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to retrieve store data")
		return
	}

	response := StoreExportResponse{
		StoreID:    storeID,
		ExportDate: time.Now().UTC(),
		Items:      items,
		Reorder:    reorder,
		TotalItems: len(items),
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal export response",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to generate JSON")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseData)))

	if _, err := w.Write(responseData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write JSON response",
			slog.String("error", err.Error()))
		return
	}

	// Cache asynchronously so a slow Redis never delays the download.
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := h.cache.Set(cacheCtx, cacheKey, responseData); err != nil {
			h.logger.WarnContext(cacheCtx, "failed to cache JSON export",
				slog.String("error", err.Error()))
		}
	}()

	h.logger.InfoContext(ctx, "json export completed",
		slog.Int64("store_id", storeID),
		slog.Int("items", len(items)))
}

func (h *ExportHandler) fetchStoreData(ctx context.Context, storeID int64) ([]domain.Item, []domain.ReorderEntry, error) {
	items, err := h.items.ListByStore(ctx, storeID)
	if err != nil {
		return nil, nil, err
	}
	return items, domain.BuildReorderList(items), nil
}

// generateExcelFile writes a two-sheet workbook, the full catalog plus
// the derived reorder list.
func (h *ExportHandler) generateExcelFile(items []domain.Item, reorder []domain.ReorderEntry) ([]byte, error) {
	file := xlsx.NewFile()

	catalog, err := file.AddSheet("Catalog")
	if err != nil {
		return nil, fmt.Errorf("failed to add catalog sheet: %w", err)
	}

	headerRow := catalog.AddRow()
	for _, header := range []string{"ID", "Name", "Barcode", "Current Stock", "Reorder Level", "Target Stock", "Needs Reorder", "Updated At"} {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for i := range items {
		item := &items[i]
		row := catalog.AddRow()
		barcode := ""
		if item.Barcode != nil {
			barcode = *item.Barcode
		}
		needsReorder := "No"
		if item.NeedsReorder() {
			needsReorder = "Yes"
		}
		for _, value := range []string{
			strconv.FormatInt(item.ID, 10),
			item.Name,
			barcode,
			strconv.FormatInt(item.CurrentStock, 10),
			strconv.FormatInt(item.ReorderLevel, 10),
			strconv.FormatInt(item.TargetStock, 10),
			needsReorder,
			item.UpdatedAt.Format("2006-01-02 15:04:05"),
		} {
			row.AddCell().Value = value
		}
	}

	reorderSheet, err := file.AddSheet("Reorder")
	if err != nil {
		return nil, fmt.Errorf("failed to add reorder sheet: %w", err)
	}

	reorderHeader := reorderSheet.AddRow()
	for _, header := range []string{"Item ID", "Name", "Current Stock", "Reorder Level", "Reorder Quantity"} {
		cell := reorderHeader.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, entry := range reorder {
		row := reorderSheet.AddRow()
		for _, value := range []string{
			strconv.FormatInt(entry.ItemID, 10),
			entry.Name,
			strconv.FormatInt(entry.CurrentStock, 10),
			strconv.FormatInt(entry.ReorderLevel, 10),
			strconv.FormatInt(entry.ReorderQuantity, 10),
		} {
			row.AddCell().Value = value
		}
	}

	for _, sheet := range []*xlsx.Sheet{catalog, reorderSheet} {
		for i := 0; i < 8; i++ {
			sheet.SetColWidth(i, i, 15)
		}
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}
