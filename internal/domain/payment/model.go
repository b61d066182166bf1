package payment

import (
	"time"

	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/shopspring/decimal"
)

// Payment records money received against an invoice. Gateway-backed
// payments additionally carry the provider's order and capture ids so
// webhooks can find them.
type Payment struct {
	ID               string              `json:"id"`
	InvoiceID        string              `json:"invoice_id"`
	Amount           decimal.Decimal     `json:"amount"`
	Currency         string              `json:"currency"`
	Method           types.PaymentMethod `json:"payment_method"`
	Reference        string              `json:"reference,omitempty"`
	PaymentDate      time.Time           `json:"payment_date"`
	PaymentStatus    types.PaymentStatus `json:"payment_status"`
	GatewayOrderID   *string             `json:"gateway_order_id,omitempty"`
	GatewayCaptureID *string             `json:"gateway_capture_id,omitempty"`
	FailureReason    string              `json:"failure_reason,omitempty"`
	Metadata         types.Metadata      `json:"metadata,omitempty"`
	types.BaseModel
}

// Validate checks the payment's required fields.
func (p *Payment) Validate() error {
	if p.InvoiceID == "" {
		return ierr.NewError("payment requires an invoice").
			WithHint("Please select an invoice").
			Mark(ierr.ErrValidation)
	}
	if !p.Amount.IsPositive() {
		return ierr.NewError("payment amount must be positive").
			WithHint("Amount must be greater than zero").
			WithReportableDetails(map[string]any{"amount": p.Amount.String()}).
			Mark(ierr.ErrValidation)
	}
	if err := p.Method.Validate(); err != nil {
		return err
	}
	return p.PaymentStatus.Validate()
}
