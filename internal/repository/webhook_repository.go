package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/servicecore/internal/model"
)

// ErrDuplicateEvent is returned when a (provider, external_event_id) pair
// has already been recorded, signalling the caller to treat the webhook as
// already handled rather than reprocessing side effects.
var ErrDuplicateEvent = errors.New("duplicate webhook event")

type WebhookRepo struct{ DB *sql.DB }

func NewWebhookRepo(db *sql.DB) *WebhookRepo { return &WebhookRepo{DB: db} }

// InsertPendingTx records an inbound webhook as PENDING. A unique index on
// (provider, external_event_id) makes this the idempotency checkpoint: a
// duplicate delivery fails the INSERT with a 1062 error, which the caller
// maps to ErrDuplicateEvent.
func (r *WebhookRepo) InsertPendingTx(ctx context.Context, tx *sql.Tx, ev *model.WebhookEvent) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO webhook_events (provider, external_event_id, event_type, status, payload)
		 VALUES (?,?,?,?,?)`,
		ev.Provider, ev.ExternalEventID, ev.EventType, model.WebhookPending, ev.Payload)
	if err != nil {
		if isDuplicateKeyErr(err) {
			return 0, ErrDuplicateEvent
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetForUpdateTx loads a webhook event row with a row lock, so a retried
// delivery that lands while the first attempt is still mid-transaction
// blocks instead of double-processing.
func (r *WebhookRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, provider, externalEventID string) (model.WebhookEvent, error) {
	var ev model.WebhookEvent
	var processedAt sql.NullTime
	err := tx.QueryRowContext(ctx,
		`SELECT id, provider, external_event_id, event_type, status, payload, error, received_at, processed_at
		 FROM webhook_events WHERE provider = ? AND external_event_id = ? FOR UPDATE`,
		provider, externalEventID).Scan(
		&ev.ID, &ev.Provider, &ev.ExternalEventID, &ev.EventType, &ev.Status, &ev.Payload, &ev.Error,
		&ev.ReceivedAt, &processedAt)
	if err != nil {
		return model.WebhookEvent{}, err
	}
	if processedAt.Valid {
		t := processedAt.Time
		ev.ProcessedAt = &t
	}
	return ev, nil
}

// MarkProcessedTx marks a webhook event PROCESSED.
func (r *WebhookRepo) MarkProcessedTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE webhook_events SET status = ?, processed_at = ? WHERE id = ?`,
		model.WebhookProcessed, time.Now().UTC(), id)
	return err
}

// MarkFailedTx marks a webhook event FAILED with an explanatory message.
func (r *WebhookRepo) MarkFailedTx(ctx context.Context, tx *sql.Tx, id uint64, errMsg string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE webhook_events SET status = ?, error = ?, processed_at = ? WHERE id = ?`,
		model.WebhookFailed, errMsg, time.Now().UTC(), id)
	return err
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "1062") || strings.Contains(s, "Duplicate entry")
}
