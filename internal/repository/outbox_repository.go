package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/servicecore/internal/model"
)

type OutboxRepo struct{ DB *sql.DB }

func NewOutboxRepo(db *sql.DB) *OutboxRepo { return &OutboxRepo{DB: db} }

// EnqueueTx writes a notification row in the same transaction as the
// booking mutation that triggered it, so a committed state change and its
// notification are never observed inconsistently.
func (r *OutboxRepo) EnqueueTx(ctx context.Context, tx *sql.Tx, bookingID uint64, eventType string, payload []byte) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO notification_outbox (booking_id, event_type, payload, status) VALUES (?,?,?,?)`,
		bookingID, eventType, payload, model.OutboxPending)
	return err
}

// FetchPendingTx returns a batch of undelivered rows for the relay to
// publish, locking them so two relay instances don't double-send.
func (r *OutboxRepo) FetchPendingTx(ctx context.Context, tx *sql.Tx, limit int) ([]model.NotificationOutbox, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, booking_id, event_type, payload, status, attempts, created_at, sent_at
		 FROM notification_outbox WHERE status = ? ORDER BY id LIMIT ? FOR UPDATE`,
		model.OutboxPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.NotificationOutbox
	for rows.Next() {
		var o model.NotificationOutbox
		var sentAt sql.NullTime
		if err := rows.Scan(&o.ID, &o.BookingID, &o.EventType, &o.Payload, &o.Status, &o.Attempts,
			&o.CreatedAt, &sentAt); err != nil {
			return nil, err
		}
		if sentAt.Valid {
			t := sentAt.Time
			o.SentAt = &t
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// MarkSentTx records a successful relay publish.
func (r *OutboxRepo) MarkSentTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE notification_outbox SET status = ?, sent_at = ? WHERE id = ?`,
		model.OutboxSent, time.Now().UTC(), id)
	return err
}

// MarkFailedTx increments the attempt counter and, past a retry ceiling,
// marks the row FAILED so the relay stops retrying it forever.
func (r *OutboxRepo) MarkFailedTx(ctx context.Context, tx *sql.Tx, id uint64, maxAttempts int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE notification_outbox SET attempts = attempts + 1,
		   status = CASE WHEN attempts + 1 >= ? THEN ? ELSE status END
		 WHERE id = ?`,
		maxAttempts, model.OutboxFailed, id)
	return err
}
