// internal/core/ports/camera.go
package ports

import "context"

// CameraDevice is the hardware port used by scan sessions. Acquire
// claims the device, Capture blocks until a barcode is decoded or the
// context ends, and Release returns the device for other sessions.
// Release must be safe to call after a failed Capture.
type CameraDevice interface {
	Acquire(ctx context.Context) error
	Capture(ctx context.Context) (string, error)
	Release()
}
