// internal/core/domain/reorder.go
package domain

// ReorderEntry is one line of a store's reorder list.
type ReorderEntry struct {
	ItemID          int64  `json:"itemId"`
	Name            string `json:"name"`
	CurrentStock    int64  `json:"currentStock"`
	ReorderLevel    int64  `json:"reorderLevel"`
	TargetStock     int64  `json:"targetStock"`
	ReorderQuantity int64  `json:"reorderQuantity"`
}

// BuildReorderList derives the reorder list from a catalog snapshot.
// An item qualifies when its stock is at or below the reorder level,
// and the suggested quantity is whatever closes the gap to the target,
// even when the target sits below the current stock. Entries keep the
// catalog's order.
func BuildReorderList(items []Item) []ReorderEntry {
	entries := make([]ReorderEntry, 0, len(items))
	for _, item := range items {
		if !item.NeedsReorder() {
			continue
		}
		entries = append(entries, ReorderEntry{
			ItemID:          item.ID,
			Name:            item.Name,
			CurrentStock:    item.CurrentStock,
			ReorderLevel:    item.ReorderLevel,
			TargetStock:     item.TargetStock,
			ReorderQuantity: item.TargetStock - item.CurrentStock,
		})
	}
	return entries
}
