package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature_Valid(t *testing.T) {
	body := []byte(`{"type":"payment_intent.succeeded"}`)
	secret := "whsec_test"
	assert.True(t, VerifySignature(secret, body, sign(secret, body)))
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	body := []byte(`{"type":"payment_intent.succeeded"}`)
	assert.False(t, VerifySignature("whsec_other", body, sign("whsec_test", body)))
}

func TestVerifySignature_TamperedBody(t *testing.T) {
	secret := "whsec_test"
	sig := sign(secret, []byte(`{"amount":100}`))
	assert.False(t, VerifySignature(secret, []byte(`{"amount":100000}`), sig))
}
