package handler

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/servicecore/internal/engine"
)

func TestEngineErrStatus_MapsKinds(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{engine.ErrBookingNotFound, http.StatusNotFound, "BOOKING_NOT_FOUND"},
		{engine.ErrStatusDrift, http.StatusConflict, "STATUS_DRIFT"},
		{engine.ErrAcceptWindowExpired, http.StatusConflict, "ACCEPT_WINDOW_EXPIRED"},
		{engine.ErrOwnedByOtherProvider, http.StatusForbidden, "OWNED_BY_OTHER_PROVIDER"},
		{engine.ErrInvalidOTP, http.StatusForbidden, "INVALID_OTP"},
		{engine.ErrIllegalTransition, http.StatusBadRequest, "ILLEGAL_TRANSITION"},
		{engine.ErrNotCandidate, http.StatusForbidden, "NOT_CANDIDATE"},
		{sql.ErrNoRows, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, c := range cases {
		status, code := engineErrStatus(c.err)
		assert.Equal(t, c.wantStatus, status)
		assert.Equal(t, c.wantCode, code)
	}
}

func TestEngineErrStatus_UnknownDefaultsToInternal(t *testing.T) {
	status, code := engineErrStatus(assertUnknownErr{})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", code)
}

type assertUnknownErr struct{}

func (assertUnknownErr) Error() string { return "boom" }
