package models

import "time"

// Billing webhook event names
const (
	BillingEventOrderCreated  = "order_created"
	BillingEventOrderRefunded = "order_refunded"
)

// BillingOrderStatusPaid is the order status that grants access
const BillingOrderStatusPaid = "paid"

// BillingWebhookPayload represents the billing provider webhook body
type BillingWebhookPayload struct {
	Meta struct {
		EventName  string `json:"event_name" validate:"required"`
		WebhookID  string `json:"webhook_id"`
		CustomData struct {
			UserID string `json:"user_id"`
		} `json:"custom_data"`
	} `json:"meta"`
	Data struct {
		ID         string `json:"id" validate:"required"`
		Attributes struct {
			UserEmail      string `json:"user_email"`
			Status         string `json:"status"`
			FirstOrderItem struct {
				ProductID FlexibleString `json:"product_id"`
			} `json:"first_order_item"`
		} `json:"attributes"`
	} `json:"data"`
}

// WebhookEvent represents a processed webhook in the idempotency ledger
type WebhookEvent struct {
	ID          int       `json:"id"`
	EventID     string    `json:"eventId"`
	EventName   string    `json:"eventName"`
	ProcessedAt time.Time `json:"processedAt"`
}

// WebhookResult describes how a webhook delivery was handled
type WebhookResult struct {
	Status       string `json:"status"`
	EnrollmentID int    `json:"enrollmentId,omitempty"`
}

// Webhook result statuses
const (
	WebhookStatusProcessed = "processed"
	WebhookStatusDuplicate = "duplicate"
	WebhookStatusIgnored   = "ignored"
)
