package v1

import (
	"io"
	"net/http"

	"github.com/billflow/billflow/internal/api/dto"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/logger"
	"github.com/billflow/billflow/internal/service"
	"github.com/gin-gonic/gin"
)

type GatewayHandler struct {
	service service.GatewayService
	log     *logger.Logger
}

func NewGatewayHandler(service service.GatewayService, log *logger.Logger) *GatewayHandler {
	return &GatewayHandler{service: service, log: log}
}

// @Summary Start a Stripe checkout
// @Description Create a Stripe payment intent for an invoice's outstanding balance
// @Tags Gateways
// @Accept json
// @Produce json
// @Param checkout body dto.CreateStripePaymentIntentRequest true "Checkout data"
// @Success 201 {object} dto.StripePaymentIntentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /gateways/stripe/payment-intents [post]
func (h *GatewayHandler) CreateStripePaymentIntent(c *gin.Context) {
	var req dto.CreateStripePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateStripePaymentIntent(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to create stripe payment intent", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Stripe webhook endpoint
// @Description Receive payment intent events from Stripe
// @Tags Gateways
// @Accept json
// @Produce json
// @Success 200 {object} dto.WebhookResultResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /webhooks/stripe [post]
func (h *GatewayHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Failed to read webhook payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.HandleStripeWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.log.Error("Failed to handle stripe webhook", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Start a PayPal checkout
// @Description Create a PayPal order for an invoice's outstanding balance
// @Tags Gateways
// @Accept json
// @Produce json
// @Param checkout body dto.CreatePayPalOrderRequest true "Checkout data"
// @Success 201 {object} dto.PayPalOrderResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /gateways/paypal/orders [post]
func (h *GatewayHandler) CreatePayPalOrder(c *gin.Context) {
	var req dto.CreatePayPalOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreatePayPalOrder(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to create paypal order", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Capture a PayPal order
// @Description Capture an approved PayPal order and settle the invoice
// @Tags Gateways
// @Accept json
// @Produce json
// @Param capture body dto.CapturePayPalOrderRequest true "Capture data"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /gateways/paypal/capture [post]
func (h *GatewayHandler) CapturePayPalOrder(c *gin.Context) {
	var req dto.CapturePayPalOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CapturePayPalOrder(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to capture paypal order", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary PayPal webhook endpoint
// @Description Receive capture events from PayPal
// @Tags Gateways
// @Accept json
// @Produce json
// @Success 200 {object} dto.WebhookResultResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /webhooks/paypal [post]
func (h *GatewayHandler) HandlePayPalWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Failed to read webhook payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.HandlePayPalWebhook(c.Request.Context(), payload)
	if err != nil {
		h.log.Error("Failed to handle paypal webhook", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
