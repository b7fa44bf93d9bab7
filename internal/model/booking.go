package model

import "time"

// BookingStatus enumerates the lifecycle states a booking can occupy.
// Values mirror the `bookings.status` column and the state machine table.
type BookingStatus string

const (
	StatusPendingPayment  BookingStatus = "PENDING_PAYMENT"
	StatusDispatching     BookingStatus = "DISPATCHING"
	StatusClaimed         BookingStatus = "CLAIMED"
	StatusEnRoute         BookingStatus = "EN_ROUTE"
	StatusArrived         BookingStatus = "ARRIVED"
	StatusInProgress      BookingStatus = "IN_PROGRESS"
	StatusCompletePending BookingStatus = "COMPLETE_PENDING"
	StatusClosed          BookingStatus = "CLOSED"
	StatusCancelled       BookingStatus = "CANCELLED"
	StatusFlagged         BookingStatus = "FLAGGED"
)

// Booking represents a row in the `bookings` table: the transactional core
// record tracking a customer's request for a service from authorization
// through settlement.
type Booking struct {
	ID              uint64
	CustomerID      uint64
	ServiceID       uint64
	ProviderID      *uint64 // nil until claimed
	Status          BookingStatus
	CandidateList   []uint64 // ordered provider ids eligible to accept, ≤5
	PriceCents      int64
	Currency        string
	StartOTP        string // 4-digit code, customer-visible, revealed to the provider on-site
	ScheduledFor    time.Time
	AcceptDeadline  time.Time // DISPATCHING must be claimed before this instant
	GraceDeadline   *time.Time // COMPLETE_PENDING auto-closes after this instant
	CancelReason    string
	FlagReason      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookingEvent is an append-only audit row in `booking_events`, one per
// applied state transition on a booking.
type BookingEvent struct {
	ID        uint64
	BookingID uint64
	FromState BookingStatus
	ToState   BookingStatus
	ActorID   uint64
	ActorRole string
	Reason    string
	CreatedAt time.Time
}
