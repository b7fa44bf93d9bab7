// Package engine implements the transactional core of the booking
// lifecycle: payment authorization, dispatch, atomic accept, on-site
// execution and settlement. Every mutation is wrapped in a database
// transaction via database.WithTx and, where concurrent writers are
// expected (accept, guarded transitions), guarded by a conditional
// UPDATE whose affected-row count is checked before the caller is told
// it succeeded.
package engine

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/servicecore/internal/database"
	"github.com/iliyamo/servicecore/internal/model"
	"github.com/iliyamo/servicecore/internal/payment"
	"github.com/iliyamo/servicecore/internal/repository"
	"github.com/iliyamo/servicecore/internal/statemachine"
)

// Engine bundles the repositories and the payment ledger needed to run
// every booking operation.
type Engine struct {
	DB        *sql.DB
	Bookings  *repository.BookingRepo
	Providers *repository.ProviderRepo
	Services  *repository.ServiceRepo
	Outbox    *repository.OutboxRepo
	Ledger    *payment.Ledger

	AcceptWindow time.Duration // DISPATCHING -> must be claimed within this window
	GraceWindow  time.Duration // COMPLETE_PENDING -> auto-closes after this window
}

func New(db *sql.DB, bookings *repository.BookingRepo, providers *repository.ProviderRepo,
	services *repository.ServiceRepo, outbox *repository.OutboxRepo, ledger *payment.Ledger) *Engine {
	return &Engine{
		DB: db, Bookings: bookings, Providers: providers, Services: services,
		Outbox: outbox, Ledger: ledger,
		AcceptWindow: 10 * time.Minute,
		GraceWindow:  30 * time.Minute,
	}
}

func (e *Engine) emit(ctx context.Context, tx *sql.Tx, bookingID uint64, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return e.Outbox.EnqueueTx(ctx, tx, bookingID, eventType, body)
}

// newOTP returns a 4-digit start code drawn uniformly from [1000, 9999].
func newOTP() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	n := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	return fmt.Sprintf("%04d", 1000+n%9000), nil
}

// Create inserts a customer's requested service as a booking in
// PENDING_PAYMENT and returns its ID. No PSP call happens here: the
// customer must separately call Pay, and the booking only advances to
// DISPATCHING once OnAuthorizationSuccessTx is driven by the webhook
// pipeline confirming the hold.
func (e *Engine) Create(ctx context.Context, customerID, serviceID uint64, scheduledFor time.Time) (uint64, error) {
	svc, err := e.Services.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrBookingNotFound
		}
		return 0, err
	}
	if !svc.IsActive {
		return 0, ErrServiceInactive
	}

	otp, err := newOTP()
	if err != nil {
		return 0, err
	}

	candidates, err := e.Providers.ListOnlineForService(ctx, serviceID, 5)
	if err != nil {
		return 0, err
	}

	var bookingID uint64
	now := time.Now().UTC()
	err = database.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		id, err := e.Bookings.CreateTx(ctx, tx, &model.Booking{
			CustomerID:     customerID,
			ServiceID:      serviceID,
			CandidateList:  candidates,
			PriceCents:     svc.BasePriceCents,
			Currency:       svc.Currency,
			StartOTP:       otp,
			ScheduledFor:   scheduledFor,
			AcceptDeadline: now.Add(e.AcceptWindow),
		})
		if err != nil {
			return err
		}
		bookingID = id
		if err := e.Bookings.InsertEventTx(ctx, tx, &model.BookingEvent{
			BookingID: id, FromState: "", ToState: model.StatusPendingPayment,
			ActorID: customerID, ActorRole: "USER", Reason: "booking requested",
		}); err != nil {
			return err
		}
		return e.emit(ctx, tx, id, "booking.pending_payment", echoBooking{ID: id, Status: string(model.StatusPendingPayment)})
	})
	if err != nil {
		return 0, err
	}
	return bookingID, nil
}

// Pay requests a PSP hold for a PENDING_PAYMENT booking's snapshotted
// price and records it as a CREATED payment intent. The booking itself
// does not move: it stays PENDING_PAYMENT until the PSP confirms the hold
// through a payment_intent.succeeded webhook, which drives
// OnAuthorizationSuccessTx. Calling Pay again for a booking that already
// has an intent returns the existing one rather than erroring on the
// table's one-intent-per-booking constraint.
func (e *Engine) Pay(ctx context.Context, bookingID, actorID uint64, actorRole string) (model.PaymentIntent, error) {
	if actorRole != "USER" && actorRole != "ADMIN" {
		return model.PaymentIntent{}, ErrNotOwner
	}
	b, err := e.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PaymentIntent{}, ErrBookingNotFound
		}
		return model.PaymentIntent{}, err
	}
	if actorRole == "USER" && b.CustomerID != actorID {
		return model.PaymentIntent{}, ErrNotOwner
	}
	if b.Status != model.StatusPendingPayment {
		return model.PaymentIntent{}, ErrIllegalTransition
	}
	if existing, err := e.Ledger.Payments.GetByBookingID(ctx, bookingID); err == nil {
		return existing, nil
	}

	externalID, err := e.Ledger.AuthorizeOutsideTx(b.PriceCents, b.Currency)
	if err != nil {
		return model.PaymentIntent{}, err
	}

	pi := model.PaymentIntent{
		BookingID: bookingID, Provider: e.Ledger.ProviderName, ExternalID: externalID,
		Status: model.PaymentCreated, AmountCents: b.PriceCents, Currency: b.Currency,
	}
	err = database.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		id, err := e.Ledger.CreateIntentTx(ctx, tx, bookingID, externalID, b.PriceCents, b.Currency, e.Ledger.ProviderName)
		if err != nil {
			return err
		}
		pi.ID = id
		return e.emit(ctx, tx, bookingID, "booking.payment_created", echoBooking{ID: bookingID, Status: string(b.Status)})
	})
	if err != nil {
		return model.PaymentIntent{}, err
	}
	return pi, nil
}

// OnAuthorizationSuccessTx is the webhook pipeline's sole driver of
// PENDING_PAYMENT -> DISPATCHING. It confirms the booking's intent from
// CREATED to AUTHORIZED and, if the booking is still PENDING_PAYMENT,
// advances it. Runs inside the webhook processor's transaction so the
// event ledger row and the booking transition commit together. A booking
// that has already moved past PENDING_PAYMENT (e.g. a retried webhook
// delivery) is left untouched.
func (e *Engine) OnAuthorizationSuccessTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	b, err := e.Bookings.GetByIDTx(ctx, tx, bookingID, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}
	if err := e.Ledger.OnAuthorizationSuccessTx(ctx, tx, bookingID); err != nil {
		return err
	}
	if b.Status != model.StatusPendingPayment {
		return nil
	}
	if !statemachine.CanTransition(b.Status, model.StatusDispatching, "SYSTEM") {
		return ErrIllegalTransition
	}
	if err := e.Bookings.ReDispatchTx(ctx, tx, bookingID, model.StatusPendingPayment, time.Now().UTC().Add(e.AcceptWindow)); err != nil {
		if errors.Is(err, repository.ErrStatusDrift) {
			return ErrStatusDrift
		}
		return err
	}
	if err := e.Bookings.InsertEventTx(ctx, tx, &model.BookingEvent{
		BookingID: bookingID, FromState: model.StatusPendingPayment, ToState: model.StatusDispatching,
		ActorRole: "SYSTEM", Reason: "payment authorized",
	}); err != nil {
		return err
	}
	return e.emit(ctx, tx, bookingID, "booking.dispatching", echoBooking{ID: bookingID, Status: string(model.StatusDispatching)})
}

func isCandidate(candidates []uint64, providerID uint64) bool {
	for _, id := range candidates {
		if id == providerID {
			return true
		}
	}
	return false
}

type echoBooking struct {
	ID     uint64 `json:"booking_id"`
	Status string `json:"status"`
}

// Accept performs the atomic claim: a provider races other providers to
// claim a DISPATCHING booking. The sequence is: lock the row, verify
// DISPATCHING (ErrIllegalTransition otherwise, which is what a losing
// racer sees once the winner has committed), verify the accept deadline
// has not passed, verify the provider is on the candidate list, consult
// the state machine, run the conditional UPDATE (ErrStatusDrift if it
// affects no row), append the audit event, enqueue the notification —
// all inside one transaction so nothing observes a half-applied claim.
func (e *Engine) Accept(ctx context.Context, bookingID, providerID uint64) error {
	return database.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		b, err := e.Bookings.GetByIDTx(ctx, tx, bookingID, true)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
		if b.Status != model.StatusDispatching {
			return ErrIllegalTransition
		}
		if time.Now().UTC().After(b.AcceptDeadline) {
			return ErrAcceptWindowExpired
		}
		if !isCandidate(b.CandidateList, providerID) {
			return ErrNotCandidate
		}
		if !statemachine.CanTransition(b.Status, model.StatusClaimed, "PROVIDER") {
			return ErrIllegalTransition
		}
		if err := e.Bookings.AcceptTx(ctx, tx, bookingID, providerID); err != nil {
			if errors.Is(err, repository.ErrStatusDrift) {
				return ErrStatusDrift
			}
			return err
		}
		if err := e.Bookings.InsertEventTx(ctx, tx, &model.BookingEvent{
			BookingID: bookingID, FromState: model.StatusDispatching, ToState: model.StatusClaimed,
			ActorID: providerID, ActorRole: "PROVIDER", Reason: "accepted",
		}); err != nil {
			return err
		}
		return e.emit(ctx, tx, bookingID, "booking.claimed", echoBooking{ID: bookingID, Status: string(model.StatusClaimed)})
	})
}

// guardedTransition is the shared implementation behind the provider's
// on-site progress calls (en route, arrived, in progress). It verifies
// ownership, consults the state machine table, then applies the same
// conditional-UPDATE-plus-RowsAffected pattern as Accept.
func (e *Engine) guardedTransition(ctx context.Context, bookingID, providerID uint64, to model.BookingStatus, actorRole, reason string) error {
	return database.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		b, err := e.Bookings.GetByIDTx(ctx, tx, bookingID, true)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
		if b.ProviderID == nil || *b.ProviderID != providerID {
			return ErrOwnedByOtherProvider
		}
		if !statemachine.CanTransition(b.Status, to, actorRole) {
			return ErrIllegalTransition
		}
		if err := e.Bookings.TransitionTx(ctx, tx, bookingID, b.Status, to); err != nil {
			if errors.Is(err, repository.ErrStatusDrift) {
				return ErrStatusDrift
			}
			return err
		}
		if err := e.Bookings.InsertEventTx(ctx, tx, &model.BookingEvent{
			BookingID: bookingID, FromState: b.Status, ToState: to, ActorID: providerID, ActorRole: actorRole, Reason: reason,
		}); err != nil {
			return err
		}
		return e.emit(ctx, tx, bookingID, "booking."+string(to), echoBooking{ID: bookingID, Status: string(to)})
	})
}

// MarkEnRoute transitions CLAIMED -> EN_ROUTE.
func (e *Engine) MarkEnRoute(ctx context.Context, bookingID, providerID uint64) error {
	return e.guardedTransition(ctx, bookingID, providerID, model.StatusEnRoute, "PROVIDER", "en route")
}

// MarkArrived transitions EN_ROUTE -> ARRIVED.
func (e *Engine) MarkArrived(ctx context.Context, bookingID, providerID uint64) error {
	return e.guardedTransition(ctx, bookingID, providerID, model.StatusArrived, "PROVIDER", "arrived")
}

// StartWithOTP transitions ARRIVED -> IN_PROGRESS only if the customer's
// revealed start code matches the booking's stored OTP, compared in
// constant time so a timing side channel can't be used to brute-force it.
func (e *Engine) StartWithOTP(ctx context.Context, bookingID, providerID uint64, otp string) error {
	return database.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		b, err := e.Bookings.GetByIDTx(ctx, tx, bookingID, true)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
		if b.ProviderID == nil || *b.ProviderID != providerID {
			return ErrOwnedByOtherProvider
		}
		if subtle.ConstantTimeCompare([]byte(b.StartOTP), []byte(otp)) != 1 {
			return ErrInvalidOTP
		}
		if !statemachine.CanTransition(b.Status, model.StatusInProgress, "PROVIDER") {
			return ErrIllegalTransition
		}
		if err := e.Bookings.TransitionTx(ctx, tx, bookingID, b.Status, model.StatusInProgress); err != nil {
			if errors.Is(err, repository.ErrStatusDrift) {
				return ErrStatusDrift
			}
			return err
		}
		if err := e.Bookings.InsertEventTx(ctx, tx, &model.BookingEvent{
			BookingID: bookingID, FromState: b.Status, ToState: model.StatusInProgress,
			ActorID: providerID, ActorRole: "PROVIDER", Reason: "otp verified",
		}); err != nil {
			return err
		}
		return e.emit(ctx, tx, bookingID, "booking.in_progress", echoBooking{ID: bookingID, Status: string(model.StatusInProgress)})
	})
}

// ProviderCancel releases a CLAIMED/EN_ROUTE booking back to the
// dispatch queue with a fresh accept deadline, instead of cancelling it
// outright, so the customer doesn't lose their authorization to a single
// provider backing out.
func (e *Engine) ProviderCancel(ctx context.Context, bookingID, providerID uint64, reason string) error {
	return database.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		b, err := e.Bookings.GetByIDTx(ctx, tx, bookingID, true)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
		if b.ProviderID == nil || *b.ProviderID != providerID {
			return ErrOwnedByOtherProvider
		}
		if !statemachine.CanTransition(b.Status, model.StatusDispatching, "PROVIDER") {
			return ErrIllegalTransition
		}
		newDeadline := time.Now().UTC().Add(e.AcceptWindow)
		if err := e.Bookings.ReDispatchTx(ctx, tx, bookingID, b.Status, newDeadline); err != nil {
			if errors.Is(err, repository.ErrStatusDrift) {
				return ErrStatusDrift
			}
			return err
		}
		if err := e.Bookings.InsertEventTx(ctx, tx, &model.BookingEvent{
			BookingID: bookingID, FromState: b.Status, ToState: model.StatusDispatching,
			ActorID: providerID, ActorRole: "PROVIDER", Reason: reason,
		}); err != nil {
			return err
		}
		return e.emit(ctx, tx, bookingID, "booking.redispatched", echoBooking{ID: bookingID, Status: string(model.StatusDispatching)})
	})
}

// CompleteWithCapture performs the one-step settlement: IN_PROGRESS ->
// CLOSED, capturing the full authorized amount immediately. Providers use
// this when no post-completion grace window is required.
func (e *Engine) CompleteWithCapture(ctx context.Context, bookingID, providerID uint64) error {
	return database.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		b, err := e.Bookings.GetByIDTx(ctx, tx, bookingID, true)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
		if b.ProviderID == nil || *b.ProviderID != providerID {
			return ErrOwnedByOtherProvider
		}
		if !statemachine.CanTransition(b.Status, model.StatusClosed, "PROVIDER") {
			return ErrIllegalTransition
		}
		if err := e.Bookings.TransitionTx(ctx, tx, bookingID, b.Status, model.StatusClosed); err != nil {
			if errors.Is(err, repository.ErrStatusDrift) {
				return ErrStatusDrift
			}
			return err
		}
		if statemachine.IsEligibleForPayout(model.StatusClosed) {
			if err := e.Ledger.CaptureTx(ctx, tx, bookingID); err != nil {
				return err
			}
		}
		if err := e.Bookings.InsertEventTx(ctx, tx, &model.BookingEvent{
			BookingID: bookingID, FromState: b.Status, ToState: model.StatusClosed,
			ActorID: providerID, ActorRole: "PROVIDER", Reason: "completed, captured",
		}); err != nil {
			return err
		}
		return e.emit(ctx, tx, bookingID, "booking.closed", echoBooking{ID: bookingID, Status: string(model.StatusClosed)})
	})
}

// ProviderComplete starts the two-step settlement path: IN_PROGRESS ->
// COMPLETE_PENDING, opening a grace window during which the customer can
// dispute before funds are captured.
func (e *Engine) ProviderComplete(ctx context.Context, bookingID, providerID uint64) error {
	return database.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		b, err := e.Bookings.GetByIDTx(ctx, tx, bookingID, true)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
		if b.ProviderID == nil || *b.ProviderID != providerID {
			return ErrOwnedByOtherProvider
		}
		if !statemachine.CanTransition(b.Status, model.StatusCompletePending, "PROVIDER") {
			return ErrIllegalTransition
		}
		deadline := time.Now().UTC().Add(e.GraceWindow)
		if err := e.Bookings.SetGraceDeadlineTx(ctx, tx, bookingID, deadline); err != nil {
			if errors.Is(err, repository.ErrStatusDrift) {
				return ErrStatusDrift
			}
			return err
		}
		if err := e.Bookings.InsertEventTx(ctx, tx, &model.BookingEvent{
			BookingID: bookingID, FromState: b.Status, ToState: model.StatusCompletePending,
			ActorID: providerID, ActorRole: "PROVIDER", Reason: "awaiting customer confirmation",
		}); err != nil {
			return err
		}
		return e.emit(ctx, tx, bookingID, "booking.complete_pending", echoBooking{ID: bookingID, Status: string(model.StatusCompletePending)})
	})
}

// ConfirmComplete lets the customer confirm a COMPLETE_PENDING booking
// before the grace window elapses, capturing funds and closing it. It is
// idempotent: calling it twice on an already-CLOSED booking is a no-op
// success rather than an error, since the sweeper may have already closed
// it out from under a slow client.
func (e *Engine) ConfirmComplete(ctx context.Context, bookingID, customerID uint64) error {
	return database.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		b, err := e.Bookings.GetByIDTx(ctx, tx, bookingID, true)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
		if b.CustomerID != customerID {
			return ErrNotOwner
		}
		if b.Status == model.StatusClosed {
			return nil
		}
		if !statemachine.CanTransition(b.Status, model.StatusClosed, "USER") {
			return ErrIllegalTransition
		}
		if err := e.Bookings.TransitionTx(ctx, tx, bookingID, b.Status, model.StatusClosed); err != nil {
			if errors.Is(err, repository.ErrStatusDrift) {
				return ErrStatusDrift
			}
			return err
		}
		if statemachine.IsEligibleForPayout(model.StatusClosed) {
			if err := e.Ledger.CaptureTx(ctx, tx, bookingID); err != nil {
				return err
			}
		}
		if err := e.Bookings.InsertEventTx(ctx, tx, &model.BookingEvent{
			BookingID: bookingID, FromState: b.Status, ToState: model.StatusClosed,
			ActorID: customerID, ActorRole: "USER", Reason: "customer confirmed",
		}); err != nil {
			return err
		}
		return e.emit(ctx, tx, bookingID, "booking.closed", echoBooking{ID: bookingID, Status: string(model.StatusClosed)})
	})
}

// Cancel cancels a non-terminal booking. A customer cancelling once a
// provider is en route or on-site (EN_ROUTE, ARRIVED) is charged the
// platform's cancellation fee, with the remainder released; every other
// cancellation — including any provider-initiated one — releases the
// full authorization.
func (e *Engine) Cancel(ctx context.Context, bookingID, actorID uint64, actorRole, reason string) error {
	return database.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		b, err := e.Bookings.GetByIDTx(ctx, tx, bookingID, true)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
		if actorRole == "USER" && b.CustomerID != actorID {
			return ErrNotOwner
		}
		if actorRole == "PROVIDER" && (b.ProviderID == nil || *b.ProviderID != actorID) {
			return ErrOwnedByOtherProvider
		}
		if !statemachine.CanTransition(b.Status, model.StatusCancelled, actorRole) {
			return ErrIllegalTransition
		}
		chargeFee := actorRole == "USER" && (b.Status == model.StatusEnRoute || b.Status == model.StatusArrived)
		if err := e.Bookings.CancelTx(ctx, tx, bookingID, b.Status, reason); err != nil {
			if errors.Is(err, repository.ErrStatusDrift) {
				return ErrStatusDrift
			}
			return err
		}
		if chargeFee {
			if _, err := e.Ledger.CaptureFeeOnlyTx(ctx, tx, bookingID); err != nil {
				return err
			}
		} else {
			// A PENDING_PAYMENT booking has either no intent yet or one that
			// never cleared CREATED, so there is no authorized hold to release.
			err := e.Ledger.ReleaseTx(ctx, tx, bookingID)
			unpaid := b.Status == model.StatusPendingPayment &&
				(errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrStatusDrift))
			if err != nil && !unpaid {
				return err
			}
		}
		if err := e.Bookings.InsertEventTx(ctx, tx, &model.BookingEvent{
			BookingID: bookingID, FromState: b.Status, ToState: model.StatusCancelled,
			ActorID: actorID, ActorRole: actorRole, Reason: reason,
		}); err != nil {
			return err
		}
		return e.emit(ctx, tx, bookingID, "booking.cancelled", echoBooking{ID: bookingID, Status: string(model.StatusCancelled)})
	})
}

// IssueFlag raises a dispute on a booking, freezing it in FLAGGED for
// manual admin resolution rather than letting either side force a
// settlement outcome unilaterally.
func (e *Engine) IssueFlag(ctx context.Context, bookingID, actorID uint64, actorRole, reason string) error {
	return database.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		b, err := e.Bookings.GetByIDTx(ctx, tx, bookingID, true)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
		if !statemachine.CanTransition(b.Status, model.StatusFlagged, actorRole) {
			return ErrIllegalTransition
		}
		if b.GraceDeadline != nil && time.Now().UTC().After(*b.GraceDeadline) {
			return newErr(KindInvalid, "GRACE_WINDOW_CLOSED", "the grace window for this booking has closed")
		}
		if err := e.Bookings.FlagTx(ctx, tx, bookingID, b.Status, reason); err != nil {
			if errors.Is(err, repository.ErrStatusDrift) {
				return ErrStatusDrift
			}
			return err
		}
		if err := e.Bookings.InsertEventTx(ctx, tx, &model.BookingEvent{
			BookingID: bookingID, FromState: b.Status, ToState: model.StatusFlagged,
			ActorID: actorID, ActorRole: actorRole, Reason: reason,
		}); err != nil {
			return err
		}
		return e.emit(ctx, tx, bookingID, "booking.flagged", echoBooking{ID: bookingID, Status: string(model.StatusFlagged)})
	})
}

// ListForCustomer returns a page of a customer's bookings.
func (e *Engine) ListForCustomer(ctx context.Context, customerID uint64, limit, offset int) ([]model.Booking, error) {
	return e.Bookings.ListForCustomer(ctx, customerID, limit, offset)
}

// ListClaimedForProvider returns a page of a provider's claimed bookings.
func (e *Engine) ListClaimedForProvider(ctx context.Context, providerID uint64, limit, offset int) ([]model.Booking, error) {
	return e.Bookings.ListClaimedForProvider(ctx, providerID, limit, offset)
}
