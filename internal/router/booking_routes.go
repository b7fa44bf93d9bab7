package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/servicecore/internal/handler"
	"github.com/iliyamo/servicecore/internal/middleware"
)

// RegisterBookings wires the booking lifecycle endpoints under /v1, each
// group applying its own JWTAuth middleware. Role enforcement is
// per-route: customers create/cancel/confirm/raise an issue, providers
// claim and drive on-site progress.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	customers := e.Group("/v1/bookings")
	customers.Use(middleware.JWTAuth(jwtSecret))
	customers.Use(middleware.RequireRole("USER", "PROVIDER", "ADMIN"))

	customers.POST("", b.CreateBooking)
	customers.GET("", b.ListMyBookings)
	customers.GET("/:id", b.GetBooking)
	customers.POST("/:id/pay", b.Pay)
	customers.POST("/:id/cancel", b.Cancel)
	customers.POST("/:id/confirm-complete", b.ConfirmComplete)
	customers.POST("/:id/issue", b.Flag)

	providerOnly := e.Group("/v1/bookings")
	providerOnly.Use(middleware.JWTAuth(jwtSecret))
	providerOnly.Use(middleware.RequireRole("PROVIDER"))

	providerOnly.POST("/:id/accept", b.AcceptBooking)
	providerOnly.POST("/:id/travel", b.EnRoute)
	providerOnly.POST("/:id/arrived", b.Arrived)
	providerOnly.POST("/:id/start", b.Start)
	providerOnly.POST("/:id/complete", b.CompleteWithCapture)
	providerOnly.POST("/:id/provider-complete", b.ProviderComplete)
	providerOnly.POST("/:id/provider_cancel", b.ProviderCancel)

	e.GET("/v1/bookings/claimed", b.ListClaimedBookings, middleware.JWTAuth(jwtSecret), middleware.RequireRole("PROVIDER"))
	e.POST("/v1/provider/online", b.SetOnline, middleware.JWTAuth(jwtSecret), middleware.RequireRole("PROVIDER"))
}
