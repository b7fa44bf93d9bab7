// Package payment wraps the Stripe SDK behind a small interface so the
// booking engine can authorize, capture and release funds without caring
// whether a real PSP key is configured. When STRIPE_SECRET_KEY is unset,
// Client falls back to a mock implementation that fabricates intent IDs,
// which keeps local development and tests from requiring live credentials.
package payment

import (
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// Client authorizes, captures and releases payment holds against an
// external PSP. All amounts are in minor currency units (cents).
type Client interface {
	Authorize(amountCents int64, currency string) (externalID string, err error)
	Capture(externalID string) error
	Release(externalID string) error
}

// NewClient returns a Stripe-backed client when secretKey is non-empty,
// otherwise a mock client suitable for development and tests.
func NewClient(secretKey string) Client {
	if secretKey == "" {
		return &mockClient{}
	}
	return &stripeClient{secretKey: secretKey}
}

type stripeClient struct{ secretKey string }

func (c *stripeClient) Authorize(amountCents int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountCents),
		Currency:           stripe.String(currency),
		CaptureMethod:      stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	pi, err := (paymentintent.Client{Key: c.secretKey}).New(params)
	if err != nil {
		return "", err
	}
	return pi.ID, nil
}

func (c *stripeClient) Capture(externalID string) error {
	params := &stripe.PaymentIntentCaptureParams{}
	_, err := (paymentintent.Client{Key: c.secretKey}).Capture(externalID, params)
	return err
}

func (c *stripeClient) Release(externalID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	_, err := (paymentintent.Client{Key: c.secretKey}).Cancel(externalID, params)
	return err
}

type mockClient struct{}

func (m *mockClient) Authorize(amountCents int64, currency string) (string, error) {
	return "pi_mock_" + uuid.New().String(), nil
}

func (m *mockClient) Capture(externalID string) error { return nil }
func (m *mockClient) Release(externalID string) error { return nil }
