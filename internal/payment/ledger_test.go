package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeBps_TenPercent(t *testing.T) {
	assert.Equal(t, int64(1000), int64(FeeBps))
	amountCents := int64(4999)
	feeCents := amountCents * FeeBps / 10000
	assert.Equal(t, int64(499), feeCents)
}

func TestFeeBps_RoundsDown(t *testing.T) {
	amountCents := int64(1005)
	feeCents := amountCents * FeeBps / 10000
	assert.Equal(t, int64(100), feeCents)
}

func TestParseWebhookPayload(t *testing.T) {
	raw := []byte(`{"external_id":"pi_mock_abc","booking_id":42}`)
	p, err := ParseWebhookPayload(raw)
	assert.NoError(t, err)
	assert.Equal(t, "pi_mock_abc", p.ExternalID)
	assert.Equal(t, uint64(42), p.BookingID)
}

func TestParseWebhookPayload_Malformed(t *testing.T) {
	_, err := ParseWebhookPayload([]byte(`not json`))
	assert.Error(t, err)
}
