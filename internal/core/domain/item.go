// internal/core/domain/item.go
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Item is a catalog entry scoped to a single store. CurrentStock is the
// authoritative on-hand quantity; every change to it outside an
// administrative override flows through the stock ledger.
type Item struct {
	ID           int64     `json:"id"`
	StoreID      int64     `json:"storeId"`
	Name         string    `json:"name"`
	SKU          string    `json:"sku,omitempty"`
	Barcode      *string   `json:"barcode,omitempty"`
	Unit         string    `json:"unit,omitempty"`
	CurrentStock int64     `json:"currentStock"`
	ReorderLevel int64     `json:"reorderLevel"`
	TargetStock  int64     `json:"targetStock"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NeedsReorder reports whether the item sits at or below its reorder
// threshold.
func (i *Item) NeedsReorder() bool {
	return i.CurrentStock <= i.ReorderLevel
}

// Validate checks the item before persistence.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("%w: item name is required", ErrInvalidArgument)
	}
	if i.StoreID <= 0 {
		return fmt.Errorf("%w: item must belong to a store", ErrInvalidArgument)
	}
	if i.CurrentStock < 0 {
		return fmt.Errorf("%w: currentStock cannot be negative", ErrInvalidArgument)
	}
	if i.ReorderLevel < 0 {
		return fmt.Errorf("%w: reorderLevel cannot be negative", ErrInvalidArgument)
	}
	if i.TargetStock < 0 {
		return fmt.Errorf("%w: targetStock cannot be negative", ErrInvalidArgument)
	}
	return nil
}

// PrepareForStorage normalizes fields before an insert or update. An
// empty barcode is stored as NULL so the per-store uniqueness index
// only applies to real codes.
func (i *Item) PrepareForStorage() {
	i.Name = strings.TrimSpace(i.Name)
	i.SKU = strings.TrimSpace(i.SKU)
	i.Unit = strings.TrimSpace(i.Unit)

	if i.Barcode != nil {
		code := strings.TrimSpace(*i.Barcode)
		if code == "" {
			i.Barcode = nil
		} else {
			i.Barcode = &code
		}
	}

	now := time.Now().UTC()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now
}
