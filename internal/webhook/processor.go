// Package webhook makes inbound PSP callbacks idempotent and applies the
// authorization-succeeded side effect to the booking it references.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"

	"github.com/iliyamo/servicecore/internal/database"
	"github.com/iliyamo/servicecore/internal/engine"
	"github.com/iliyamo/servicecore/internal/model"
	"github.com/iliyamo/servicecore/internal/payment"
	"github.com/iliyamo/servicecore/internal/repository"
)

var ErrBadSignature = errors.New("webhook signature mismatch")

// VerifySignature checks an HMAC-SHA256 hex signature over the raw body,
// in constant time, against the configured webhook secret.
func VerifySignature(secret string, body []byte, signatureHex string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signatureHex)) == 1
}

// Processor runs the idempotency ledger algorithm: insert-if-absent,
// apply the side effect, mark processed — all guarded by row locks so a
// retried delivery can never apply its side effect twice.
type Processor struct {
	DB       *sql.DB
	Webhooks *repository.WebhookRepo
	Engine   *engine.Engine
}

func New(db *sql.DB, webhooks *repository.WebhookRepo, eng *engine.Engine) *Processor {
	return &Processor{DB: db, Webhooks: webhooks, Engine: eng}
}

// ProcessEvent records the event and, on first delivery, drives the
// booking's payment intent from CREATED to AUTHORIZED and the booking
// itself from PENDING_PAYMENT to DISPATCHING. Duplicate deliveries return
// repository.ErrDuplicateEvent, which the handler should treat as a 200
// (already handled), never as a failure.
func (p *Processor) ProcessEvent(ctx context.Context, provider, externalEventID, eventType string, rawBody []byte) error {
	return database.WithTx(ctx, p.DB, func(tx *sql.Tx) error {
		id, err := p.Webhooks.InsertPendingTx(ctx, tx, &model.WebhookEvent{
			Provider: provider, ExternalEventID: externalEventID, EventType: eventType, Payload: rawBody,
		})
		if err != nil {
			return err
		}

		payload, err := payment.ParseWebhookPayload(rawBody)
		if err != nil {
			_ = p.Webhooks.MarkFailedTx(ctx, tx, id, err.Error())
			return err
		}

		switch eventType {
		case "payment_intent.succeeded":
			if err := p.Engine.OnAuthorizationSuccessTx(ctx, tx, payload.BookingID); err != nil {
				_ = p.Webhooks.MarkFailedTx(ctx, tx, id, err.Error())
				return err
			}
		}

		return p.Webhooks.MarkProcessedTx(ctx, tx, id)
	})
}
