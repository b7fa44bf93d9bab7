// Package sweeper runs the background TTL sweeps that the engine cannot
// rely on lazy checks alone to enforce: bookings stuck in PENDING_PAYMENT
// past the payment window, DISPATCHING bookings past their accept
// deadline, and COMPLETE_PENDING bookings whose grace window elapsed
// without an explicit customer confirmation.
package sweeper

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/iliyamo/servicecore/internal/database"
	"github.com/iliyamo/servicecore/internal/model"
	"github.com/iliyamo/servicecore/internal/payment"
	"github.com/iliyamo/servicecore/internal/repository"
	"github.com/iliyamo/servicecore/internal/statemachine"
)

const batchLimit = 200

// paymentWindow is how long a booking may sit in PENDING_PAYMENT before the
// sweeper gives up on it ever being paid and cancels it.
const paymentWindow = 24 * time.Hour

type Sweeper struct {
	DB       *sql.DB
	Bookings *repository.BookingRepo
	Outbox   *repository.OutboxRepo
	Ledger   *payment.Ledger
}

func New(db *sql.DB, bookings *repository.BookingRepo, outbox *repository.OutboxRepo, ledger *payment.Ledger) *Sweeper {
	return &Sweeper{DB: db, Bookings: bookings, Outbox: outbox, Ledger: ledger}
}

// Run executes every sweep once and returns how many rows each touched.
func (s *Sweeper) Run(ctx context.Context) (expiredPayments, expiredDispatch, grace int, err error) {
	expiredPayments, err = s.SweepExpiredPayments(ctx)
	if err != nil {
		return expiredPayments, 0, 0, err
	}
	expiredDispatch, err = s.SweepExpiredDispatch(ctx)
	if err != nil {
		return expiredPayments, expiredDispatch, 0, err
	}
	grace, err = s.SweepGraceWindows(ctx)
	return expiredPayments, expiredDispatch, grace, err
}

// RunForever ticks Run on the given interval until ctx is cancelled.
func (s *Sweeper) RunForever(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			expiredPayments, dispatched, grace, err := s.Run(ctx)
			if err != nil {
				log.Printf("sweeper: run failed: %v", err)
				continue
			}
			if expiredPayments > 0 || dispatched > 0 || grace > 0 {
				log.Printf("sweeper: expired_payments=%d expired_dispatch=%d grace_closed=%d", expiredPayments, dispatched, grace)
			}
		}
	}
}

// SweepExpiredPayments cancels PENDING_PAYMENT bookings that have sat
// unpaid for more than the payment window, the TTL rule SPEC_FULL.md §4.6
// names directly: nobody ever authorized a hold for this booking, so there
// is nothing left to do but fold it into CANCELLED. An intent that was
// created but never confirmed by an authorization webhook has no hold to
// release and is left in CREATED.
func (s *Sweeper) SweepExpiredPayments(ctx context.Context) (int, error) {
	touched := 0
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		cutoff := time.Now().UTC().Add(-paymentWindow)
		ids, err := s.Bookings.SweepExpiredPaymentsTx(ctx, tx, cutoff, batchLimit)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := s.Bookings.CancelTx(ctx, tx, id, model.StatusPendingPayment, "payment window expired"); err != nil {
				if err == repository.ErrStatusDrift {
					continue
				}
				return err
			}
			// Most PENDING_PAYMENT bookings this sweep catches never had Pay
			// called at all (no intent row), or had one that never cleared
			// CREATED, so there is no authorized hold to release.
			if err := s.Ledger.ReleaseTx(ctx, tx, id); err != nil && err != sql.ErrNoRows && err != repository.ErrStatusDrift {
				return err
			}
			if err := s.Bookings.InsertEventTx(ctx, tx, &model.BookingEvent{
				BookingID: id, FromState: model.StatusPendingPayment, ToState: model.StatusCancelled,
				ActorRole: "SYSTEM", Reason: "payment window expired",
			}); err != nil {
				return err
			}
			if err := s.Outbox.EnqueueTx(ctx, tx, id, "booking.cancelled", []byte(`{"reason":"payment_window_expired"}`)); err != nil {
				return err
			}
			touched++
		}
		return nil
	})
	return touched, err
}

// SweepExpiredDispatch cancels DISPATCHING bookings past their accept
// deadline and releases their payment holds: no provider claimed the job
// in time, so the customer's authorization is returned rather than
// captured. This sweep is an addition beyond the distilled TTL rule
// (documented as REDESIGN FLAG R2 in SPEC_FULL.md) needed because the
// accept window itself is part of this implementation's dispatch model.
func (s *Sweeper) SweepExpiredDispatch(ctx context.Context) (int, error) {
	touched := 0
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		ids, err := s.Bookings.SweepExpiredDispatchTx(ctx, tx, now, batchLimit)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if !statemachine.IsEligibleForRefund(model.StatusDispatching) {
				continue // table drift guard; should never trip
			}
			if err := s.Bookings.CancelTx(ctx, tx, id, model.StatusDispatching, "accept window expired"); err != nil {
				if err == repository.ErrStatusDrift {
					continue // raced with a manual action; skip, don't fail the whole batch
				}
				return err
			}
			if err := s.Ledger.ReleaseTx(ctx, tx, id); err != nil {
				return err
			}
			if err := s.Bookings.InsertEventTx(ctx, tx, &model.BookingEvent{
				BookingID: id, FromState: model.StatusDispatching, ToState: model.StatusCancelled,
				ActorRole: "SYSTEM", Reason: "accept window expired",
			}); err != nil {
				return err
			}
			if err := s.Outbox.EnqueueTx(ctx, tx, id, "booking.cancelled", []byte(`{"reason":"accept_window_expired"}`)); err != nil {
				return err
			}
			touched++
		}
		return nil
	})
	return touched, err
}

// SweepGraceWindows closes COMPLETE_PENDING bookings whose grace window
// has elapsed without a dispute, capturing the settlement. This resolves
// the open question of whether the grace window is enforced by a
// scheduled sweep or left to lazy checks: this scheduled sweep is the
// only path that closes an expired grace window, so settlement happens
// even if nobody ever calls the API again for that booking.
func (s *Sweeper) SweepGraceWindows(ctx context.Context) (int, error) {
	touched := 0
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		ids, err := s.Bookings.SweepGraceWindowsTx(ctx, tx, now, batchLimit)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if !statemachine.IsEligibleForPayout(model.StatusClosed) {
				continue // table drift guard; should never trip
			}
			if err := s.Bookings.TransitionTx(ctx, tx, id, model.StatusCompletePending, model.StatusClosed); err != nil {
				if err == repository.ErrStatusDrift {
					continue
				}
				return err
			}
			if err := s.Ledger.CaptureTx(ctx, tx, id); err != nil {
				return err
			}
			if err := s.Bookings.InsertEventTx(ctx, tx, &model.BookingEvent{
				BookingID: id, FromState: model.StatusCompletePending, ToState: model.StatusClosed,
				ActorRole: "SYSTEM", Reason: "grace window elapsed",
			}); err != nil {
				return err
			}
			if err := s.Outbox.EnqueueTx(ctx, tx, id, "booking.closed", []byte(`{"reason":"grace_window_elapsed"}`)); err != nil {
				return err
			}
			touched++
		}
		return nil
	})
	return touched, err
}
