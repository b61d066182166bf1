package invoice

import (
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/shopspring/decimal"
)

// LineItem is a single billed line on an invoice. Amount is derived as
// quantity times unit price and stored redundantly.
type LineItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// Validate checks the line item. Malformed numeric input is rejected here
// rather than silently coerced to zero.
func (li *LineItem) Validate() error {
	if li.ProductID == "" {
		return ierr.NewError("line item requires a product").
			WithHint("Please select a product for each line item").
			Mark(ierr.ErrValidation)
	}
	if li.Quantity.IsNegative() {
		return ierr.NewError("line item quantity must be non-negative").
			WithHint("Quantity cannot be negative").
			WithReportableDetails(map[string]any{"quantity": li.Quantity.String()}).
			Mark(ierr.ErrValidation)
	}
	if li.UnitPrice.IsNegative() {
		return ierr.NewError("line item unit price must be non-negative").
			WithHint("Unit price cannot be negative").
			WithReportableDetails(map[string]any{"unit_price": li.UnitPrice.String()}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ComputeAmount returns quantity times unit price at full precision.
func (li *LineItem) ComputeAmount() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}
