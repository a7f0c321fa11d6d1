// internal/core/domain/transaction.go
package domain

import (
	"fmt"
	"time"
)

// TransactionType classifies a stock movement.
type TransactionType string

const (
	TransactionSale       TransactionType = "SALE"
	TransactionDelivery   TransactionType = "DELIVERY"
	TransactionAdjustment TransactionType = "ADJUSTMENT"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionSale, TransactionDelivery, TransactionAdjustment:
		return true
	}
	return false
}

// StockTransaction is an immutable ledger entry. StockBefore and
// StockAfter snapshot the item's stock around the movement, and
// StockAfter-StockBefore always equals Quantity. Entries are never
// updated or deleted, and ItemID is kept even after the item itself is
// removed from the catalog.
type StockTransaction struct {
	ID              int64           `json:"id"`
	ItemID          int64           `json:"itemId"`
	StoreID         int64           `json:"storeId"`
	Type            TransactionType `json:"type"`
	Quantity        int64           `json:"quantity"`
	StockBefore     int64           `json:"stockBefore"`
	StockAfter      int64           `json:"stockAfter"`
	Notes           string          `json:"notes,omitempty"`
	TransactionDate time.Time       `json:"transactionDate"`
}

// SignedQuantity converts a caller-supplied quantity into the signed
// delta applied to the stock level. Sales and deliveries take a
// positive magnitude and carry the sign of their type; adjustments are
// bidirectional and keep the caller's sign.
func SignedQuantity(t TransactionType, quantity int64) (int64, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidArgument, t)
	}
	if quantity == 0 {
		return 0, fmt.Errorf("%w: quantity cannot be zero", ErrInvalidArgument)
	}

	switch t {
	case TransactionSale:
		if quantity < 0 {
			return 0, fmt.Errorf("%w: sale quantity must be positive", ErrInvalidArgument)
		}
		return -quantity, nil
	case TransactionDelivery:
		if quantity < 0 {
			return 0, fmt.Errorf("%w: delivery quantity must be positive", ErrInvalidArgument)
		}
		return quantity, nil
	default:
		return quantity, nil
	}
}
