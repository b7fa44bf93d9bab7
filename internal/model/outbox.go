package model

import "time"

// OutboxStatus tracks delivery progress of a notification outbox row.
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "PENDING"
	OutboxSent    OutboxStatus = "SENT"
	OutboxFailed  OutboxStatus = "FAILED"
)

// NotificationOutbox represents a row in the `notification_outbox` table.
// Rows are written in the same transaction as the booking mutation that
// caused them, then relayed to the message broker asynchronously — a
// transactional-outbox pattern that avoids dual-write inconsistency
// between the database and RabbitMQ.
type NotificationOutbox struct {
	ID         uint64
	BookingID  uint64
	EventType  string
	Payload    []byte
	Status     OutboxStatus
	Attempts   int
	CreatedAt  time.Time
	SentAt     *time.Time
}
