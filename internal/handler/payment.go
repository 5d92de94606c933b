package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/inditecg-developers/EmoscreenPaid/internal/dto"
	"github.com/inditecg-developers/EmoscreenPaid/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	engine service.ReconciliationEngine
	mailer service.MailerService
}

func NewPaymentHandler(engine service.ReconciliationEngine, mailer service.MailerService) *PaymentHandler {
	return &PaymentHandler{
		engine: engine,
		mailer: mailer,
	}
}

// CheckoutReturn receives the gateway's synchronous post-back after hosted
// checkout completes and redirects the patient to the matching page.
func (h *PaymentHandler) CheckoutReturn(c echo.Context) error {
	ctx := c.Request().Context()

	orderCode := c.Param("orderCode")
	gatewayOrderID := c.FormValue("gateway_order_id")
	gatewayPaymentID := c.FormValue("gateway_payment_id")
	gatewaySignature := c.FormValue("gateway_signature")

	err := h.engine.HandleCheckoutReturn(ctx, orderCode, gatewayOrderID, gatewayPaymentID, gatewaySignature)
	switch {
	case err == nil:
		return c.Redirect(http.StatusFound, fmt.Sprintf("/paid/orders/%s/form", orderCode))
	case errors.Is(err, service.ErrSignatureInvalid),
		errors.Is(err, service.ErrOrderMismatch):
		return c.Redirect(http.StatusFound, fmt.Sprintf("/paid/orders/%s/payment?status=invalid", orderCode))
	case errors.Is(err, service.ErrAmountMismatch),
		errors.Is(err, service.ErrUnknownTransaction):
		return c.Redirect(http.StatusFound, fmt.Sprintf("/paid/orders/%s/payment?status=failed", orderCode))
	default:
		return err
	}
}

// Webhook receives the gateway's asynchronous event stream. The raw body
// bytes are what got signed; they must reach the engine unmodified.
// Status codes steer gateway retries: 2xx stops them (including idempotent
// no-ops), 4xx is final, 5xx asks for redelivery.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	err = h.engine.HandleWebhookEvent(ctx, body, c.Request().Header.Get("X-Razorpay-Signature"))
	switch {
	case err == nil:
		return c.NoContent(http.StatusOK)
	case errors.Is(err, service.ErrSignatureInvalid),
		errors.Is(err, service.ErrMalformedEvent):
		return c.NoContent(http.StatusBadRequest)
	case errors.Is(err, service.ErrAmountMismatch),
		errors.Is(err, service.ErrOrderMismatch):
		return c.NoContent(http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrUnknownTransaction):
		return c.NoContent(http.StatusServiceUnavailable)
	default:
		return fmt.Errorf("handle webhook: %w", err)
	}
}

// DeliveryReport records the notification queue's asynchronous SENT/FAILED
// outcome into the email log.
func (h *PaymentHandler) DeliveryReport(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.DeliveryReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.mailer.RecordDeliveryStatus(ctx, req.MessageID, req.Status, req.Error); err != nil {
		return fmt.Errorf("record delivery status: %w", err)
	}

	return c.NoContent(http.StatusOK)
}
