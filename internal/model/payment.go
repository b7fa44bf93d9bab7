package model

import "time"

// PaymentIntentStatus enumerates the lifecycle of a payment authorization
// held against a booking. Mirrors `payment_intents.status`.
type PaymentIntentStatus string

const (
	PaymentCreated    PaymentIntentStatus = "CREATED"
	PaymentAuthorized PaymentIntentStatus = "AUTHORIZED"
	PaymentCaptured   PaymentIntentStatus = "SUCCEEDED"
	PaymentReleased   PaymentIntentStatus = "CANCELLED"
	PaymentFailed     PaymentIntentStatus = "FAILED"
)

// PaymentIntent represents a row in the `payment_intents` table: the
// ledger entry for a single authorize/capture/release cycle tied one-to-one
// with a booking.
type PaymentIntent struct {
	ID              uint64
	BookingID       uint64
	Provider        string // "stripe" or "mock"
	ExternalID      string // the PSP's payment intent id
	Status          PaymentIntentStatus
	AmountCents     int64
	FeeCents        int64
	Currency        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
