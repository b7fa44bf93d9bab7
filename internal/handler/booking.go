package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/servicecore/internal/engine"
	"github.com/iliyamo/servicecore/internal/repository"
)

// BookingHandler exposes the booking lifecycle over HTTP. Every write
// endpoint delegates directly to the engine, which owns the transaction
// boundaries; this handler only binds/validates input and maps engine
// errors to HTTP status codes.
type BookingHandler struct {
	Engine    *engine.Engine
	Providers *repository.ProviderRepo
}

func NewBookingHandler(e *engine.Engine, providers *repository.ProviderRepo) *BookingHandler {
	return &BookingHandler{Engine: e, Providers: providers}
}

func engineErrStatus(err error) (int, string) {
	var ee *engine.Error
	if errors.As(err, &ee) {
		switch ee.Kind {
		case engine.KindNotFound:
			return http.StatusNotFound, ee.Code
		case engine.KindConflict:
			return http.StatusConflict, ee.Code
		case engine.KindForbidden:
			return http.StatusForbidden, ee.Code
		case engine.KindInvalid:
			return http.StatusBadRequest, ee.Code
		case engine.KindUnavailable:
			return http.StatusConflict, ee.Code
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return http.StatusNotFound, "NOT_FOUND"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

func (h *BookingHandler) fail(c echo.Context, err error) error {
	status, code := engineErrStatus(err)
	return c.JSON(status, echo.Map{"error": code, "message": err.Error()})
}

func (h *BookingHandler) providerIDFor(c echo.Context, userID uint64) (uint64, error) {
	p, err := h.Providers.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

type createBookingReq struct {
	ServiceID    uint64    `json:"service_id"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// CreateBooking handles POST /v1/bookings.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil || req.ServiceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_id required"})
	}
	if req.ScheduledFor.IsZero() {
		req.ScheduledFor = time.Now().UTC()
	}
	id, err := h.Engine.Create(c.Request().Context(), uid, req.ServiceID, req.ScheduledFor)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking_id": id})
}

func parseBookingID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// AcceptBooking handles POST /v1/bookings/:id/accept.
func (h *BookingHandler) AcceptBooking(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := parseBookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	providerID, err := h.providerIDFor(c, uid)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a provider"})
	}
	if err := h.Engine.Accept(c.Request().Context(), bookingID, providerID); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// EnRoute handles POST /v1/bookings/:id/travel.
func (h *BookingHandler) EnRoute(c echo.Context) error {
	return h.providerTransition(c, func(eng *engine.Engine, bookingID, providerID uint64) error {
		return eng.MarkEnRoute(c.Request().Context(), bookingID, providerID)
	})
}

// Arrived handles POST /v1/bookings/:id/arrived.
func (h *BookingHandler) Arrived(c echo.Context) error {
	return h.providerTransition(c, func(eng *engine.Engine, bookingID, providerID uint64) error {
		return eng.MarkArrived(c.Request().Context(), bookingID, providerID)
	})
}

type startReq struct {
	OTP string `json:"otp"`
}

// Start handles POST /v1/bookings/:id/start.
func (h *BookingHandler) Start(c echo.Context) error {
	var req startReq
	if err := c.Bind(&req); err != nil || req.OTP == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "otp required"})
	}
	return h.providerTransition(c, func(eng *engine.Engine, bookingID, providerID uint64) error {
		return eng.StartWithOTP(c.Request().Context(), bookingID, providerID, req.OTP)
	})
}

type reasonReq struct {
	Reason string `json:"reason"`
}

// ProviderCancel handles POST /v1/bookings/:id/provider_cancel.
func (h *BookingHandler) ProviderCancel(c echo.Context) error {
	var req reasonReq
	_ = c.Bind(&req)
	return h.providerTransition(c, func(eng *engine.Engine, bookingID, providerID uint64) error {
		return eng.ProviderCancel(c.Request().Context(), bookingID, providerID, req.Reason)
	})
}

// CompleteWithCapture handles POST /v1/bookings/:id/complete.
func (h *BookingHandler) CompleteWithCapture(c echo.Context) error {
	return h.providerTransition(c, func(eng *engine.Engine, bookingID, providerID uint64) error {
		return eng.CompleteWithCapture(c.Request().Context(), bookingID, providerID)
	})
}

// ProviderComplete handles POST /v1/bookings/:id/provider-complete.
func (h *BookingHandler) ProviderComplete(c echo.Context) error {
	return h.providerTransition(c, func(eng *engine.Engine, bookingID, providerID uint64) error {
		return eng.ProviderComplete(c.Request().Context(), bookingID, providerID)
	})
}

func (h *BookingHandler) providerTransition(c echo.Context, fn func(*engine.Engine, uint64, uint64) error) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := parseBookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	providerID, err := h.providerIDFor(c, uid)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a provider"})
	}
	if err := fn(h.Engine, bookingID, providerID); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ConfirmComplete handles POST /v1/bookings/:id/confirm-complete.
func (h *BookingHandler) ConfirmComplete(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := parseBookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.Engine.ConfirmComplete(c.Request().Context(), bookingID, uid); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Cancel handles POST /v1/bookings/:id/cancel. Both customers and
// providers may cancel; the engine enforces ownership and fee rules.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := parseBookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req reasonReq
	_ = c.Bind(&req)
	role := currentRole(c)
	actorID := uid
	if role == "PROVIDER" {
		pid, err := h.providerIDFor(c, uid)
		if err != nil {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not a provider"})
		}
		actorID = pid
	}
	if err := h.Engine.Cancel(c.Request().Context(), bookingID, actorID, role, req.Reason); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Pay handles POST /v1/bookings/:id/pay: requests a PSP hold for a
// PENDING_PAYMENT booking and records it as a pending payment intent. The
// booking only advances to DISPATCHING once the PSP's webhook confirms
// the hold.
func (h *BookingHandler) Pay(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := parseBookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	role := currentRole(c)
	pi, err := h.Engine.Pay(c.Request().Context(), bookingID, uid, role)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"payment_intent_id": pi.ExternalID,
		"status":            pi.Status,
		"amount":            pi.AmountCents,
		"currency":          pi.Currency,
	})
}

type setOnlineReq struct {
	Online bool `json:"online"`
}

// SetOnline handles POST /v1/provider/online, toggling whether the calling
// provider is currently eligible to appear in a booking's candidate list.
func (h *BookingHandler) SetOnline(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	providerID, err := h.providerIDFor(c, uid)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a provider"})
	}
	var req setOnlineReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Providers.SetOnline(c.Request().Context(), providerID, req.Online); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Flag handles POST /v1/bookings/:id/issue.
func (h *BookingHandler) Flag(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := parseBookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req reasonReq
	if err := c.Bind(&req); err != nil || len(req.Reason) < 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason of at least 5 characters required"})
	}
	role := currentRole(c)
	if err := h.Engine.IssueFlag(c.Request().Context(), bookingID, uid, role, req.Reason); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func pageParams(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	return
}

// ListMyBookings handles GET /v1/bookings (customer view).
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit, offset := pageParams(c)
	list, err := h.Engine.ListForCustomer(c.Request().Context(), uid, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}

// ListClaimedBookings handles GET /v1/bookings/claimed (provider view).
func (h *BookingHandler) ListClaimedBookings(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	providerID, err := h.providerIDFor(c, uid)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a provider"})
	}
	limit, offset := pageParams(c)
	list, err := h.Engine.ListClaimedForProvider(c.Request().Context(), providerID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}

// GetBooking handles GET /v1/bookings/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := parseBookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Engine.Bookings.GetByID(c.Request().Context(), bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	role := currentRole(c)
	if role == "USER" && b.CustomerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if role == "PROVIDER" {
		pid, err := h.providerIDFor(c, uid)
		if err != nil || b.ProviderID == nil || *b.ProviderID != pid {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
	// start_otp is revealed to the provider on-site, never over the API;
	// only the owning customer or an admin may see it in the response.
	if role != "ADMIN" && !(role == "USER" && b.CustomerID == uid) {
		b.StartOTP = ""
	}
	return c.JSON(http.StatusOK, b)
}
