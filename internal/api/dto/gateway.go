package dto

import (
	"github.com/billflow/billflow/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateStripePaymentIntentRequest starts a Stripe card payment for an
// invoice's outstanding balance
type CreateStripePaymentIntentRequest struct {
	InvoiceID string `json:"invoice_id" validate:"required"`
}

func (r *CreateStripePaymentIntentRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// StripePaymentIntentResponse returns the client secret the frontend needs
// to confirm the payment
type StripePaymentIntentResponse struct {
	PaymentID       string          `json:"payment_id"`
	PaymentIntentID string          `json:"payment_intent_id"`
	ClientSecret    string          `json:"client_secret"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
}

// CreatePayPalOrderRequest starts a PayPal checkout for an invoice's
// outstanding balance
type CreatePayPalOrderRequest struct {
	InvoiceID string `json:"invoice_id" validate:"required"`
}

func (r *CreatePayPalOrderRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// PayPalOrderResponse returns the approval link the payer is redirected to
type PayPalOrderResponse struct {
	PaymentID  string          `json:"payment_id"`
	OrderID    string          `json:"order_id"`
	ApproveURL string          `json:"approve_url,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
}

// CapturePayPalOrderRequest captures an approved PayPal order
type CapturePayPalOrderRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

func (r *CapturePayPalOrderRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// WebhookResultResponse acknowledges a processed gateway webhook
type WebhookResultResponse struct {
	Handled bool   `json:"handled"`
	Message string `json:"message"`
}
