// internal/workers/reorder_alert_processor_test.go
package workers_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelftrack/shelftrack-be/internal/core/ports"
	"github.com/shelftrack/shelftrack-be/internal/workers"
	"github.com/shelftrack/shelftrack-be/test/helpers"
)

func TestReorderAlertProcessor_ProcessTask(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	cfg.App.Environment = "development"

	processor := workers.NewReorderAlertProcessor(cfg, helpers.TestLogger())

	t.Run("development_mode_logs_instead_of_sending", func(t *testing.T) {
		payload := ports.ReorderAlertPayload{
			ItemID:       1,
			StoreID:      1,
			ItemName:     "Whole Milk 1L",
			CurrentStock: 4,
			ReorderLevel: 5,
			TargetStock:  30,
		}
		b, err := json.Marshal(payload)
		require.NoError(t, err)

		err = processor.ProcessTask(context.Background(), asynq.NewTask(workers.TypeReorderAlert, b))

		assert.NoError(t, err)
	})

	t.Run("malformed_payload_skips_retry", func(t *testing.T) {
		task := asynq.NewTask(workers.TypeReorderAlert, []byte("{not json"))

		err := processor.ProcessTask(context.Background(), task)

		require.Error(t, err)
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}
