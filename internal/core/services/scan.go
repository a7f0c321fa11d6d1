// internal/core/services/scan.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
)

// ScanState is the state of a barcode scan session.
type ScanState string

const (
	ScanIdle     ScanState = "IDLE"
	ScanScanning ScanState = "SCANNING"
	ScanResolved ScanState = "RESOLVED"
	ScanNotFound ScanState = "NOT_FOUND"
	ScanError    ScanState = "ERROR"
)

// ScanResult is the outcome of a single scan attempt. Item is set only
// when State is ScanResolved.
type ScanResult struct {
	State   ScanState    `json:"state"`
	Barcode string       `json:"barcode,omitempty"`
	Item    *domain.Item `json:"item,omitempty"`
	Message string       `json:"message,omitempty"`
}

// ScanSession drives the camera through one scan at a time for a
// single store. At most one scan runs per session; the camera is
// released on every exit path, and the session always returns to idle
// so it can be reused.
type ScanSession struct {
	camera  ports.CameraDevice
	items   ports.ItemService
	storeID int64
	logger  *slog.Logger

	mu    sync.Mutex
	state ScanState
	last  *ScanResult
}

// NewScanSession creates an idle scan session bound to a store.
func NewScanSession(camera ports.CameraDevice, items ports.ItemService, storeID int64, logger *slog.Logger) *ScanSession {
	return &ScanSession{
		camera:  camera,
		items:   items,
		storeID: storeID,
		logger:  logger.With(slog.String("service", "scan"), slog.Int64("store_id", storeID)),
		state:   ScanIdle,
	}
}

// State returns the session's current state.
func (s *ScanSession) State() ScanState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastResult returns the outcome of the most recent scan, or nil when
// no scan has completed yet.
func (s *ScanSession) LastResult() *ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Scan acquires the camera, captures one barcode and resolves it
// against the store's catalog. A second Scan while one is in flight is
// rejected with a conflict. The terminal state of the attempt is
// recorded in the result and the session returns to idle.
func (s *ScanSession) Scan(ctx context.Context) (*ScanResult, error) {
	s.mu.Lock()
	if s.state != ScanIdle {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: scan already in progress", domain.ErrConflict)
	}
	s.state = ScanScanning
	s.mu.Unlock()

	result := s.runScan(ctx)

	s.mu.Lock()
	s.state = ScanIdle
	s.last = result
	s.mu.Unlock()

	return result, nil
}

func (s *ScanSession) runScan(ctx context.Context) *ScanResult {
	if err := s.camera.Acquire(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to acquire camera",
			slog.String("error", err.Error()))
		return &ScanResult{State: ScanError, Message: "camera unavailable"}
	}
	defer s.camera.Release()

	barcode, err := s.camera.Capture(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "capture failed",
			slog.String("error", err.Error()))
		return &ScanResult{State: ScanError, Message: err.Error()}
	}

	item, err := s.items.FindByBarcode(ctx, s.storeID, barcode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.InfoContext(ctx, "barcode not in catalog",
				slog.String("barcode", barcode))
			return &ScanResult{State: ScanNotFound, Barcode: barcode}
		}
		s.logger.ErrorContext(ctx, "barcode lookup failed",
			slog.String("barcode", barcode),
			slog.String("error", err.Error()))
		return &ScanResult{State: ScanError, Barcode: barcode, Message: err.Error()}
	}

	return &ScanResult{State: ScanResolved, Barcode: barcode, Item: item}
}
