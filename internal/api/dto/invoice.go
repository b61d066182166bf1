package dto

import (
	"context"
	"time"

	"github.com/billflow/billflow/internal/domain/invoice"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/billflow/billflow/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest represents the request to create a new invoice.
// Totals are derived from the line items; clients never send them.
type CreateInvoiceRequest struct {
	CustomerID string            `json:"customer_id" validate:"required"`
	LineItems  []LineItemRequest `json:"line_items" validate:"required,min=1,dive"`
	TaxRate    decimal.Decimal   `json:"tax_rate"`
	Currency   string            `json:"currency,omitempty"`
	DueDate    time.Time         `json:"due_date" validate:"required"`
	Metadata   types.Metadata    `json:"metadata,omitempty"`
}

// LineItemRequest represents one line of an invoice
type LineItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (l LineItemRequest) Validate() error {
	if !l.Quantity.IsPositive() {
		return ierr.NewError("line item quantity must be greater than 0").
			WithHint("Quantity must be a positive number").
			WithReportableDetails(map[string]any{"quantity": l.Quantity.String()}).
			Mark(ierr.ErrValidation)
	}
	if l.UnitPrice.IsNegative() {
		return ierr.NewError("line item unit price cannot be negative").
			WithHint("Unit price cannot be negative").
			WithReportableDetails(map[string]any{"unit_price": l.UnitPrice.String()}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.TaxRate.IsNegative() || r.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return ierr.NewError("invalid tax rate").
			WithHint("Tax rate must be a fraction between 0 and 1").
			WithReportableDetails(map[string]any{"tax_rate": r.TaxRate.String()}).
			Mark(ierr.ErrValidation)
	}
	for _, item := range r.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToInvoice converts the request into a domain invoice. The caller is
// responsible for assigning the invoice number and computing totals.
func (r *CreateInvoiceRequest) ToInvoice(ctx context.Context) *invoice.Invoice {
	currency := r.Currency
	if currency == "" {
		currency = types.DefaultCurrency
	}
	return &invoice.Invoice{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		CustomerID: r.CustomerID,
		LineItems: lo.Map(r.LineItems, func(l LineItemRequest, _ int) *invoice.LineItem {
			return &invoice.LineItem{
				ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LINE_ITEM),
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			}
		}),
		TaxRate:       r.TaxRate,
		Currency:      currency,
		DueDate:       r.DueDate.UTC(),
		InvoiceStatus: types.InvoiceStatusDraft,
		Metadata:      r.Metadata,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

// UpdateInvoiceRequest represents the request to update an invoice.
// Providing line items or a tax rate triggers a full recompute of totals.
type UpdateInvoiceRequest struct {
	LineItems []LineItemRequest    `json:"line_items,omitempty" validate:"omitempty,min=1,dive"`
	TaxRate   *decimal.Decimal     `json:"tax_rate,omitempty"`
	DueDate   *time.Time           `json:"due_date,omitempty"`
	Status    *types.InvoiceStatus `json:"invoice_status,omitempty"`
	Metadata  types.Metadata       `json:"metadata,omitempty"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.TaxRate != nil && (r.TaxRate.IsNegative() || r.TaxRate.GreaterThan(decimal.NewFromInt(1))) {
		return ierr.NewError("invalid tax rate").
			WithHint("Tax rate must be a fraction between 0 and 1").
			WithReportableDetails(map[string]any{"tax_rate": r.TaxRate.String()}).
			Mark(ierr.ErrValidation)
	}
	for _, item := range r.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if r.Status != nil {
		return r.Status.Validate()
	}
	return nil
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	*invoice.Invoice
}

// ListInvoicesResponse represents a paginated list of invoices
type ListInvoicesResponse struct {
	Items      []*InvoiceResponse       `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}
