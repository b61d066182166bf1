package dto

import (
	"context"
	"time"

	"github.com/billflow/billflow/internal/domain/payment"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/billflow/billflow/internal/validator"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest represents the request to record a payment against
// an invoice
type CreatePaymentRequest struct {
	InvoiceID   string              `json:"invoice_id" validate:"required"`
	Amount      decimal.Decimal     `json:"amount"`
	Currency    string              `json:"currency,omitempty"`
	Method      types.PaymentMethod `json:"payment_method" validate:"required"`
	Reference   string              `json:"reference,omitempty"`
	PaymentDate *time.Time          `json:"payment_date,omitempty"`
	Metadata    types.Metadata      `json:"metadata,omitempty"`
}

func (r *CreatePaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return ierr.NewError("payment amount must be greater than 0").
			WithHint("Amount must be greater than zero").
			WithReportableDetails(map[string]any{"amount": r.Amount.String()}).
			Mark(ierr.ErrValidation)
	}
	return r.Method.Validate()
}

// ToPayment converts the request into a domain payment
func (r *CreatePaymentRequest) ToPayment(ctx context.Context) *payment.Payment {
	currency := r.Currency
	if currency == "" {
		currency = types.DefaultCurrency
	}
	paymentDate := time.Now().UTC()
	if r.PaymentDate != nil {
		paymentDate = r.PaymentDate.UTC()
	}
	return &payment.Payment{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		InvoiceID:     r.InvoiceID,
		Amount:        r.Amount,
		Currency:      currency,
		Method:        r.Method,
		Reference:     r.Reference,
		PaymentDate:   paymentDate,
		PaymentStatus: types.PaymentStatusCompleted,
		Metadata:      r.Metadata,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

// UpdatePaymentRequest represents the request to update a payment's status
// or reference
type UpdatePaymentRequest struct {
	Status        *types.PaymentStatus `json:"payment_status,omitempty"`
	Reference     *string              `json:"reference,omitempty"`
	FailureReason *string              `json:"failure_reason,omitempty"`
	Metadata      types.Metadata       `json:"metadata,omitempty"`
}

func (r *UpdatePaymentRequest) Validate() error {
	if r.Status != nil {
		return r.Status.Validate()
	}
	return nil
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	*payment.Payment
}

// ListPaymentsResponse represents a paginated list of payments
type ListPaymentsResponse struct {
	Items      []*PaymentResponse       `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}
