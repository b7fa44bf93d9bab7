package model

import "time"

// WebhookEventStatus tracks processing progress for an inbound webhook,
// mirroring `webhook_events.status`.
type WebhookEventStatus string

const (
	WebhookPending   WebhookEventStatus = "PENDING"
	WebhookProcessed WebhookEventStatus = "PROCESSED"
	WebhookFailed    WebhookEventStatus = "FAILED"
)

// WebhookEvent represents a row in the `webhook_events` table used to make
// inbound provider callbacks idempotent. The (Provider, ExternalEventID)
// pair is unique.
type WebhookEvent struct {
	ID              uint64
	Provider        string
	ExternalEventID string
	EventType       string
	Status          WebhookEventStatus
	Payload         []byte
	Error           string
	ReceivedAt      time.Time
	ProcessedAt     *time.Time
}
