package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

type webhookEventRepository struct {
	db *sql.DB
}

// NewWebhookEventRepository creates a new webhook event repository
func NewWebhookEventRepository(db *sql.DB) *webhookEventRepository {
	return &webhookEventRepository{
		db: db,
	}
}

// Exists checks if a webhook event was already processed
func (r *webhookEventRepository) Exists(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM webhook_events WHERE event_id = ?)`
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check webhook event existence: %w", err)
	}
	return exists, nil
}

// Record marks a webhook event as processed. Recording the same event twice is a no-op.
func (r *webhookEventRepository) Record(ctx context.Context, eventID, eventName string) error {
	query := `INSERT IGNORE INTO webhook_events (event_id, event_name) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, query, eventID, eventName); err != nil {
		return fmt.Errorf("failed to record webhook event: %w", err)
	}
	return nil
}
