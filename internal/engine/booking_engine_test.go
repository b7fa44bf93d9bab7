package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCandidate(t *testing.T) {
	candidates := []uint64{3, 7, 11}
	assert.True(t, isCandidate(candidates, 7))
	assert.False(t, isCandidate(candidates, 8))
	assert.False(t, isCandidate(nil, 1))
}

func TestNewOTP_FourDigitsInRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := newOTP()
		assert.NoError(t, err)
		assert.Len(t, otp, 4)
		assert.GreaterOrEqual(t, otp, "1000")
		assert.LessOrEqual(t, otp, "9999")
	}
}
