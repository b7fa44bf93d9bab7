package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/servicecore/internal/config"
	"github.com/iliyamo/servicecore/internal/repository"
	"github.com/iliyamo/servicecore/internal/webhook"
)

// WebhookHandler receives inbound PSP callbacks and hands them to the
// idempotency processor after verifying the signature.
type WebhookHandler struct {
	Cfg       config.Config
	Processor *webhook.Processor
}

func NewWebhookHandler(cfg config.Config, p *webhook.Processor) *WebhookHandler {
	return &WebhookHandler{Cfg: cfg, Processor: p}
}

// Receive handles POST /v1/webhooks/:provider.
func (h *WebhookHandler) Receive(c echo.Context) error {
	provider := c.Param("provider")
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read body"})
	}

	sig := c.Request().Header.Get("X-Webhook-Signature")
	secret := h.Cfg.StripeWebhookSecret
	if secret == "" && !h.Cfg.IsProduction() {
		secret = config.DevWebhookFallbackSecret
	}
	if secret == "" || !webhook.VerifySignature(secret, body, sig) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid signature"})
	}

	eventType := c.Request().Header.Get("X-Webhook-Event-Type")
	eventID := c.Request().Header.Get("X-Webhook-Event-Id")
	if eventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing event id"})
	}

	err = h.Processor.ProcessEvent(c.Request().Context(), provider, eventID, eventType, body)
	if err != nil {
		if err == repository.ErrDuplicateEvent {
			return c.JSON(http.StatusOK, echo.Map{"status": "DUPLICATE"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "processing failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "PROCESSED"})
}
