// internal/core/services/scan_test.go
package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/services"
	"github.com/shelftrack/shelftrack-be/test/helpers"
	"github.com/shelftrack/shelftrack-be/test/mocks"
)

func TestScanSession_Scan(t *testing.T) {
	tests := []struct {
		name            string
		setupMocks      func(*mocks.MockCameraDevice, *mocks.MockItemService)
		expectedState   services.ScanState
		expectedBarcode string
		expectItem      bool
	}{
		{
			name: "resolved_scan_returns_item",
			setupMocks: func(camera *mocks.MockCameraDevice, items *mocks.MockItemService) {
				gomock.InOrder(
					camera.EXPECT().Acquire(gomock.Any()).Return(nil),
					camera.EXPECT().Capture(gomock.Any()).Return("4006381333931", nil),
					camera.EXPECT().Release(),
				)
				items.EXPECT().
					FindByBarcode(gomock.Any(), int64(1), "4006381333931").
					Return(helpers.CreateTestItem(), nil)
			},
			expectedState:   services.ScanResolved,
			expectedBarcode: "4006381333931",
			expectItem:      true,
		},
		{
			name: "unknown_barcode_reports_not_found",
			setupMocks: func(camera *mocks.MockCameraDevice, items *mocks.MockItemService) {
				camera.EXPECT().Acquire(gomock.Any()).Return(nil)
				camera.EXPECT().Capture(gomock.Any()).Return("0000000000000", nil)
				camera.EXPECT().Release()
				items.EXPECT().
					FindByBarcode(gomock.Any(), int64(1), "0000000000000").
					Return(nil, domain.ErrNotFound)
			},
			expectedState:   services.ScanNotFound,
			expectedBarcode: "0000000000000",
		},
		{
			name: "acquire_failure_reports_error_without_release",
			setupMocks: func(camera *mocks.MockCameraDevice, items *mocks.MockItemService) {
				camera.EXPECT().Acquire(gomock.Any()).Return(errors.New("device busy"))
			},
			expectedState: services.ScanError,
		},
		{
			name: "capture_failure_still_releases_camera",
			setupMocks: func(camera *mocks.MockCameraDevice, items *mocks.MockItemService) {
				gomock.InOrder(
					camera.EXPECT().Acquire(gomock.Any()).Return(nil),
					camera.EXPECT().Capture(gomock.Any()).Return("", errors.New("decode timeout")),
					camera.EXPECT().Release(),
				)
			},
			expectedState: services.ScanError,
		},
		{
			name: "lookup_failure_reports_error",
			setupMocks: func(camera *mocks.MockCameraDevice, items *mocks.MockItemService) {
				camera.EXPECT().Acquire(gomock.Any()).Return(nil)
				camera.EXPECT().Capture(gomock.Any()).Return("4006381333931", nil)
				camera.EXPECT().Release()
				items.EXPECT().
					FindByBarcode(gomock.Any(), int64(1), "4006381333931").
					Return(nil, errors.New("database connection failed"))
			},
			expectedState:   services.ScanError,
			expectedBarcode: "4006381333931",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			camera := mocks.NewMockCameraDevice(ctrl)
			items := mocks.NewMockItemService(ctrl)
			tt.setupMocks(camera, items)

			session := services.NewScanSession(camera, items, 1, helpers.TestLogger())
			require.Equal(t, services.ScanIdle, session.State())

			result, err := session.Scan(context.Background())

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.expectedState, result.State)
			assert.Equal(t, tt.expectedBarcode, result.Barcode)
			if tt.expectItem {
				assert.NotNil(t, result.Item)
			} else {
				assert.Nil(t, result.Item)
			}

			// The session returns to idle and remembers the outcome.
			assert.Equal(t, services.ScanIdle, session.State())
			assert.Equal(t, result, session.LastResult())
		})
	}
}

func TestScanSession_RejectsConcurrentScan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	captureStarted := make(chan struct{})
	releaseCapture := make(chan struct{})

	camera := mocks.NewMockCameraDevice(ctrl)
	items := mocks.NewMockItemService(ctrl)

	camera.EXPECT().Acquire(gomock.Any()).Return(nil)
	camera.EXPECT().
		Capture(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (string, error) {
			close(captureStarted)
			<-releaseCapture
			return "4006381333931", nil
		})
	camera.EXPECT().Release()
	items.EXPECT().
		FindByBarcode(gomock.Any(), int64(1), "4006381333931").
		Return(helpers.CreateTestItem(), nil)

	session := services.NewScanSession(camera, items, 1, helpers.TestLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := session.Scan(context.Background())
		assert.NoError(t, err)
	}()

	<-captureStarted
	assert.Equal(t, services.ScanScanning, session.State())

	_, err := session.Scan(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)

	close(releaseCapture)
	wg.Wait()

	assert.Equal(t, services.ScanIdle, session.State())

	// A fresh scan works once the first one has finished.
	camera.EXPECT().Acquire(gomock.Any()).Return(nil)
	camera.EXPECT().Capture(gomock.Any()).Return("0000000000000", nil)
	camera.EXPECT().Release()
	items.EXPECT().
		FindByBarcode(gomock.Any(), int64(1), "0000000000000").
		Return(nil, domain.ErrNotFound)

	result, err := session.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, services.ScanNotFound, result.State)
}
