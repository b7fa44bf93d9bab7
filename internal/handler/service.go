package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/servicecore/internal/repository"
)

// ServiceHandler exposes the public service/provider catalogue. No
// authentication is required so prospective customers can browse before
// registering.
type ServiceHandler struct {
	Services  *repository.ServiceRepo
	Providers *repository.ProviderRepo
}

func NewServiceHandler(s *repository.ServiceRepo, p *repository.ProviderRepo) *ServiceHandler {
	return &ServiceHandler{Services: s, Providers: p}
}

// ListServices handles GET /v1/services.
func (h *ServiceHandler) ListServices(c echo.Context) error {
	list, err := h.Services.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"services": list})
}

// ListProviderServices handles GET /v1/providers/:id/services.
func (h *ServiceHandler) ListProviderServices(c echo.Context) error {
	providerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid provider id"})
	}
	list, err := h.Providers.ListServices(c.Request().Context(), providerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"services": list})
}
