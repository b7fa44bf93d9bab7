package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/servicecore/internal/handler"
)

// RegisterWebhooks exposes the inbound PSP callback endpoint. It carries
// no JWT middleware: authenticity is established by the HMAC signature
// the handler verifies against the configured webhook secret, since the
// caller is Stripe, not one of our own users.
func RegisterWebhooks(e *echo.Echo, w *handler.WebhookHandler) {
	e.POST("/v1/webhooks/:provider", w.Receive)
}
