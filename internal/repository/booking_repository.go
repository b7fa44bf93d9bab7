package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/iliyamo/servicecore/internal/model"
)

func encodeCandidateList(ids []uint64) ([]byte, error) {
	if ids == nil {
		ids = []uint64{}
	}
	return json.Marshal(ids)
}

func decodeCandidateList(raw []byte) ([]uint64, error) {
	var ids []uint64
	if len(raw) == 0 {
		return ids, nil
	}
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ErrStatusDrift is returned when a conditional UPDATE affects zero rows,
// meaning the booking moved to a different status between read and write.
var ErrStatusDrift = errors.New("status drift")

// ErrNotFound mirrors sql.ErrNoRows at the repository boundary so callers
// outside database/sql don't need to import it directly.
var ErrNotFound = sql.ErrNoRows

type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

// CreateTx inserts a new booking in PENDING_PAYMENT and returns its ID.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) (uint64, error) {
	candidates, err := encodeCandidateList(b.CandidateList)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings
		   (customer_id, service_id, status, candidate_list, price_cents, currency, start_otp, scheduled_for, accept_deadline)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		b.CustomerID, b.ServiceID, model.StatusPendingPayment, candidates, b.PriceCents, b.Currency,
		b.StartOTP, b.ScheduledFor, b.AcceptDeadline)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByIDTx loads a booking row within a transaction, optionally with a
// row lock (FOR UPDATE) so concurrent accept/transition attempts serialize
// on this row instead of racing.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64, forUpdate bool) (model.Booking, error) {
	q := `SELECT id, customer_id, service_id, provider_id, status, candidate_list, price_cents, currency,
	             start_otp, scheduled_for, accept_deadline, grace_deadline, cancel_reason,
	             flag_reason, created_at, updated_at
	      FROM bookings WHERE id = ?`
	if forUpdate {
		q += " FOR UPDATE"
	}
	var b model.Booking
	var providerID sql.NullInt64
	var graceDeadline sql.NullTime
	var candidates []byte
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.CustomerID, &b.ServiceID, &providerID, &b.Status, &candidates, &b.PriceCents, &b.Currency,
		&b.StartOTP, &b.ScheduledFor, &b.AcceptDeadline, &graceDeadline, &b.CancelReason,
		&b.FlagReason, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	if providerID.Valid {
		pid := uint64(providerID.Int64)
		b.ProviderID = &pid
	}
	if graceDeadline.Valid {
		t := graceDeadline.Time
		b.GraceDeadline = &t
	}
	if b.CandidateList, err = decodeCandidateList(candidates); err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

// GetByID loads a booking without a transaction (read paths, listings).
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	var b model.Booking
	var providerID sql.NullInt64
	var graceDeadline sql.NullTime
	var candidates []byte
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, customer_id, service_id, provider_id, status, candidate_list, price_cents, currency,
		        start_otp, scheduled_for, accept_deadline, grace_deadline, cancel_reason,
		        flag_reason, created_at, updated_at
		 FROM bookings WHERE id = ?`, id).Scan(
		&b.ID, &b.CustomerID, &b.ServiceID, &providerID, &b.Status, &candidates, &b.PriceCents, &b.Currency,
		&b.StartOTP, &b.ScheduledFor, &b.AcceptDeadline, &graceDeadline, &b.CancelReason,
		&b.FlagReason, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	if providerID.Valid {
		pid := uint64(providerID.Int64)
		b.ProviderID = &pid
	}
	if graceDeadline.Valid {
		t := graceDeadline.Time
		b.GraceDeadline = &t
	}
	if b.CandidateList, err = decodeCandidateList(candidates); err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

// AcceptTx atomically claims a DISPATCHING booking for a provider. The
// UPDATE's WHERE clause re-checks status = DISPATCHING so that, under
// concurrent accept attempts, only the first writer affects a row; all
// others observe RowsAffected() == 0 and must report ErrStatusDrift.
func (r *BookingRepo) AcceptTx(ctx context.Context, tx *sql.Tx, bookingID, providerID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, provider_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.StatusClaimed, providerID, bookingID, model.StatusDispatching)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStatusDrift
	}
	return nil
}

// TransitionTx performs a conditional status change guarded on the
// booking's current status, mirroring the optimistic "WHERE status = ?"
// pattern used elsewhere for ownership-scoped updates.
func (r *BookingRepo) TransitionTx(ctx context.Context, tx *sql.Tx, bookingID uint64, from, to model.BookingStatus) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`,
		to, bookingID, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStatusDrift
	}
	return nil
}

// SetGraceDeadlineTx moves a booking to COMPLETE_PENDING and records when
// the grace window for customer confirmation expires.
func (r *BookingRepo) SetGraceDeadlineTx(ctx context.Context, tx *sql.Tx, bookingID uint64, deadline time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, grace_deadline = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.StatusCompletePending, deadline, bookingID, model.StatusInProgress)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStatusDrift
	}
	return nil
}

// CancelTx transitions a booking to CANCELLED, regardless of its current
// non-terminal status, recording the reason. Used by both customer and
// provider-initiated cancellation paths (the engine enforces who may call
// this and under what fee rules).
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, bookingID uint64, from model.BookingStatus, reason string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, cancel_reason = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.StatusCancelled, reason, bookingID, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStatusDrift
	}
	return nil
}

// ReDispatchTx releases a claimed booking back to the dispatch queue,
// clearing its provider assignment and resetting the accept deadline.
func (r *BookingRepo) ReDispatchTx(ctx context.Context, tx *sql.Tx, bookingID uint64, from model.BookingStatus, newDeadline time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, provider_id = NULL, accept_deadline = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.StatusDispatching, newDeadline, bookingID, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStatusDrift
	}
	return nil
}

// FlagTx marks a booking FLAGGED with a reason, guarded on the given
// from-status; the engine only calls it for a customer's dispute on a
// COMPLETE_PENDING booking.
func (r *BookingRepo) FlagTx(ctx context.Context, tx *sql.Tx, bookingID uint64, from model.BookingStatus, reason string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, flag_reason = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.StatusFlagged, reason, bookingID, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStatusDrift
	}
	return nil
}

// InsertEventTx appends an audit row describing a transition attempt.
func (r *BookingRepo) InsertEventTx(ctx context.Context, tx *sql.Tx, ev *model.BookingEvent) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO booking_events (booking_id, from_state, to_state, actor_id, actor_role, reason)
		 VALUES (?,?,?,?,?,?)`,
		ev.BookingID, ev.FromState, ev.ToState, ev.ActorID, ev.ActorRole, ev.Reason)
	return err
}

// ListForCustomer returns a page of bookings owned by a customer, most
// recent first.
func (r *BookingRepo) ListForCustomer(ctx context.Context, customerID uint64, limit, offset int) ([]model.Booking, error) {
	return r.listWhere(ctx, "customer_id = ?", customerID, limit, offset)
}

// ListClaimedForProvider returns a page of bookings currently or previously
// claimed by a provider, most recent first.
func (r *BookingRepo) ListClaimedForProvider(ctx context.Context, providerID uint64, limit, offset int) ([]model.Booking, error) {
	return r.listWhere(ctx, "provider_id = ?", providerID, limit, offset)
}

func (r *BookingRepo) listWhere(ctx context.Context, pred string, arg uint64, limit, offset int) ([]model.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, customer_id, service_id, provider_id, status, candidate_list, price_cents, currency,
		        start_otp, scheduled_for, accept_deadline, grace_deadline, cancel_reason,
		        flag_reason, created_at, updated_at
		 FROM bookings WHERE `+pred+` ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		arg, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		var providerID sql.NullInt64
		var graceDeadline sql.NullTime
		var candidates []byte
		if err := rows.Scan(&b.ID, &b.CustomerID, &b.ServiceID, &providerID, &b.Status, &candidates, &b.PriceCents, &b.Currency,
			&b.StartOTP, &b.ScheduledFor, &b.AcceptDeadline, &graceDeadline, &b.CancelReason,
			&b.FlagReason, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if providerID.Valid {
			pid := uint64(providerID.Int64)
			b.ProviderID = &pid
		}
		if graceDeadline.Valid {
			t := graceDeadline.Time
			b.GraceDeadline = &t
		}
		if b.CandidateList, err = decodeCandidateList(candidates); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SweepExpiredPaymentsTx finds PENDING_PAYMENT bookings that have sat
// unpaid past the payment window, for the TTL sweeper.
func (r *BookingRepo) SweepExpiredPaymentsTx(ctx context.Context, tx *sql.Tx, cutoff time.Time, limit int) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM bookings WHERE status = ? AND created_at < ? ORDER BY id LIMIT ? FOR UPDATE`,
		model.StatusPendingPayment, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SweepExpiredDispatchTx finds DISPATCHING bookings past their accept
// deadline, for the TTL sweeper.
func (r *BookingRepo) SweepExpiredDispatchTx(ctx context.Context, tx *sql.Tx, now time.Time, limit int) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM bookings WHERE status = ? AND accept_deadline < ? ORDER BY id LIMIT ? FOR UPDATE`,
		model.StatusDispatching, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SweepGraceWindowsTx finds COMPLETE_PENDING bookings whose grace window
// has elapsed without an explicit customer confirmation.
func (r *BookingRepo) SweepGraceWindowsTx(ctx context.Context, tx *sql.Tx, now time.Time, limit int) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM bookings WHERE status = ? AND grace_deadline IS NOT NULL AND grace_deadline < ?
		 ORDER BY id LIMIT ? FOR UPDATE`,
		model.StatusCompletePending, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
