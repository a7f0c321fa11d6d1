// internal/core/domain/store.go
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Store represents a physical location that carries its own item
// catalog and stock ledger.
type Store struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the store before persistence.
func (s *Store) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: store name is required", ErrInvalidArgument)
	}
	return nil
}

// PrepareForStorage normalizes fields before an insert or update.
func (s *Store) PrepareForStorage() {
	s.Name = strings.TrimSpace(s.Name)
	s.Location = strings.TrimSpace(s.Location)

	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}
