// internal/workers/reorder_alert_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/hibiken/asynq"

	"github.com/shelftrack/shelftrack-be/internal/core/ports"
	"github.com/shelftrack/shelftrack-be/internal/pkg/config"
)

// ReorderAlertProcessor notifies purchasing when an item crosses its
// reorder threshold.
type ReorderAlertProcessor struct {
	config *config.Config
	logger *slog.Logger
}

// NewReorderAlertProcessor creates a new reorder alert processor
func NewReorderAlertProcessor(cfg *config.Config, logger *slog.Logger) *ReorderAlertProcessor {
	return &ReorderAlertProcessor{
		config: cfg,
		logger: logger.With(slog.String("processor", "reorder_alert")),
	}
}

// ProcessTask handles a reorder:alert task
func (p *ReorderAlertProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ports.ReorderAlertPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "processing reorder alert",
		slog.Int64("item_id", payload.ItemID),
		slog.Int64("store_id", payload.StoreID),
		slog.Int64("current_stock", payload.CurrentStock),
		slog.Int64("reorder_level", payload.ReorderLevel))

	subject := fmt.Sprintf("Reorder needed: %s (store %d)", payload.ItemName, payload.StoreID)
	body := fmt.Sprintf(
		"Item %q (id %d) in store %d dropped to %d units, at or below its reorder level of %d.\n"+
			"Suggested order quantity to reach the target of %d: %d units.",
		payload.ItemName, payload.ItemID, payload.StoreID,
		payload.CurrentStock, payload.ReorderLevel,
		payload.TargetStock, payload.TargetStock-payload.CurrentStock,
	)

	// In development, just log the alert
	if p.config.App.Environment == "development" {
		p.logger.InfoContext(ctx, "reorder alert would be sent",
			slog.String("subject", subject),
			slog.String("body", body))
		return nil
	}

	n := p.config.Notifications
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.FromAddress, n.AlertAddress, subject, body,
	))

	auth := smtp.PlainAuth("", n.SMTPUser, n.SMTPPassword, n.SMTPHost)
	addr := fmt.Sprintf("%s:%d", n.SMTPHost, n.SMTPPort)
	if err := smtp.SendMail(addr, auth, n.FromAddress, []string{n.AlertAddress}, msg); err != nil {
		return fmt.Errorf("failed to send reorder alert: %w", err)
	}

	p.logger.InfoContext(ctx, "reorder alert sent",
		slog.Int64("item_id", payload.ItemID))
	return nil
}
