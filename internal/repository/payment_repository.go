package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/servicecore/internal/model"
)

type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

// CreateTx inserts a new payment intent row with the status carried on p
// (CREATED when called from the ledger).
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.PaymentIntent) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO payment_intents (booking_id, provider, external_id, status, amount_cents, fee_cents, currency)
		 VALUES (?,?,?,?,?,?,?)`,
		p.BookingID, p.Provider, p.ExternalID, p.Status, p.AmountCents, p.FeeCents, p.Currency)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByBookingIDTx loads the payment intent tied to a booking, locking the
// row for update when inside a settlement transaction.
func (r *PaymentRepo) GetByBookingIDTx(ctx context.Context, tx *sql.Tx, bookingID uint64, forUpdate bool) (model.PaymentIntent, error) {
	q := `SELECT id, booking_id, provider, external_id, status, amount_cents, fee_cents, currency, created_at, updated_at
	      FROM payment_intents WHERE booking_id = ?`
	if forUpdate {
		q += " FOR UPDATE"
	}
	var p model.PaymentIntent
	err := tx.QueryRowContext(ctx, q, bookingID).Scan(
		&p.ID, &p.BookingID, &p.Provider, &p.ExternalID, &p.Status, &p.AmountCents, &p.FeeCents,
		&p.Currency, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetByBookingID loads the payment intent without locking, for read paths.
func (r *PaymentRepo) GetByBookingID(ctx context.Context, bookingID uint64) (model.PaymentIntent, error) {
	var p model.PaymentIntent
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, booking_id, provider, external_id, status, amount_cents, fee_cents, currency, created_at, updated_at
		 FROM payment_intents WHERE booking_id = ?`, bookingID).Scan(
		&p.ID, &p.BookingID, &p.Provider, &p.ExternalID, &p.Status, &p.AmountCents, &p.FeeCents,
		&p.Currency, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// UpdateStatusTx conditionally transitions a payment intent's status,
// using the same guarded-UPDATE idiom as the booking repository.
func (r *PaymentRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to model.PaymentIntentStatus, feeCents int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE payment_intents SET status = ?, fee_cents = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		to, feeCents, id, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStatusDrift
	}
	return nil
}
