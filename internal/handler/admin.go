package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/servicecore/internal/sweeper"
)

// AdminHandler exposes operator-triggered maintenance endpoints.
type AdminHandler struct {
	Sweeper *sweeper.Sweeper
}

func NewAdminHandler(s *sweeper.Sweeper) *AdminHandler {
	return &AdminHandler{Sweeper: s}
}

// Sweep handles POST /v1/admin/sweep, running all TTL sweeps immediately
// instead of waiting for the background ticker — useful for operators
// clearing a backlog after an incident.
func (h *AdminHandler) Sweep(c echo.Context) error {
	expiredPayments, expiredDispatch, grace, err := h.Sweeper.Run(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sweep failed", "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"expired_payments_cancelled": expiredPayments,
		"expired_dispatch_cancelled": expiredDispatch,
		"grace_window_closed":        grace,
	})
}
