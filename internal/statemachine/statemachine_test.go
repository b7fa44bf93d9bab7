package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/servicecore/internal/model"
)

func TestCanTransition_LegalPaths(t *testing.T) {
	cases := []struct {
		from, to model.BookingStatus
		role     string
	}{
		{model.StatusPendingPayment, model.StatusDispatching, "SYSTEM"},
		{model.StatusDispatching, model.StatusClaimed, "PROVIDER"},
		{model.StatusClaimed, model.StatusEnRoute, "PROVIDER"},
		{model.StatusEnRoute, model.StatusArrived, "PROVIDER"},
		{model.StatusArrived, model.StatusInProgress, "PROVIDER"},
		{model.StatusInProgress, model.StatusCompletePending, "PROVIDER"},
		{model.StatusInProgress, model.StatusClosed, "PROVIDER"},
		{model.StatusCompletePending, model.StatusClosed, "USER"},
		{model.StatusFlagged, model.StatusClosed, "ADMIN"},
	}
	for _, c := range cases {
		assert.True(t, CanTransition(c.from, c.to, c.role), "%s -> %s (%s) should be legal", c.from, c.to, c.role)
	}
}

func TestCanTransition_IllegalPaths(t *testing.T) {
	cases := []struct {
		from, to model.BookingStatus
		role     string
	}{
		{model.StatusPendingPayment, model.StatusClosed, "SYSTEM"},
		{model.StatusClosed, model.StatusDispatching, "ADMIN"},
		{model.StatusCancelled, model.StatusDispatching, "SYSTEM"},
		{model.StatusDispatching, model.StatusInProgress, "PROVIDER"},
		// a provider holds no standing to cancel a booking nobody has claimed yet
		{model.StatusDispatching, model.StatusCancelled, "PROVIDER"},
		// only an admin resolves a flagged dispute
		{model.StatusFlagged, model.StatusClosed, "PROVIDER"},
	}
	for _, c := range cases {
		assert.False(t, CanTransition(c.from, c.to, c.role), "%s -> %s (%s) should be illegal", c.from, c.to, c.role)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(model.StatusClosed))
	assert.True(t, IsTerminal(model.StatusCancelled))
	assert.False(t, IsTerminal(model.StatusInProgress))
}

func TestIsEligibleForPayoutAndRefund(t *testing.T) {
	assert.True(t, IsEligibleForPayout(model.StatusClosed))
	assert.False(t, IsEligibleForPayout(model.StatusCancelled))
	assert.True(t, IsEligibleForRefund(model.StatusDispatching))
	assert.False(t, IsEligibleForRefund(model.StatusCancelled))
	assert.False(t, IsEligibleForRefund(model.StatusClosed))
}
