package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/servicecore/internal/handler"
	"github.com/iliyamo/servicecore/internal/middleware"
)

// RegisterAdmin wires operator-only maintenance endpoints behind the
// ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))
	g.POST("/sweep", a.Sweep)
}
