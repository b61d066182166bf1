package invoice

import (
	"time"

	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice bills a customer for a set of line items. Subtotal, Tax, Total
// and AmountDue are derived by ComputeTotals and stored redundantly so
// list and metric queries never re-walk line items.
type Invoice struct {
	ID                  string              `json:"id"`
	InvoiceNumber       string              `json:"invoice_number"`
	CustomerID          string              `json:"customer_id"`
	LineItems           []*LineItem         `json:"line_items"`
	TaxRate             decimal.Decimal     `json:"tax_rate"`
	Subtotal            decimal.Decimal     `json:"subtotal"`
	Tax                 decimal.Decimal     `json:"tax"`
	Total               decimal.Decimal     `json:"total"`
	AmountDue           decimal.Decimal     `json:"amount_due"`
	Currency            string              `json:"currency"`
	DueDate             time.Time           `json:"due_date"`
	InvoiceStatus       types.InvoiceStatus `json:"invoice_status"`
	AppliedCreditNoteID *string             `json:"applied_credit_note_id,omitempty"`
	Metadata            types.Metadata      `json:"metadata,omitempty"`
	types.BaseModel
}

// Validate checks the invoice's required fields and line items.
func (i *Invoice) Validate() error {
	if i.CustomerID == "" {
		return ierr.NewError("invoice requires a customer").
			WithHint("Please select a customer").
			Mark(ierr.ErrValidation)
	}
	if len(i.LineItems) == 0 {
		return ierr.NewError("invoice has no line items").
			WithHint("Please add at least one line item").
			Mark(ierr.ErrValidation)
	}
	if i.TaxRate.IsNegative() || i.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return ierr.NewError("invalid tax rate").
			WithHint("Tax rate must be a fraction between 0 and 1").
			WithReportableDetails(map[string]any{"tax_rate": i.TaxRate.String()}).
			Mark(ierr.ErrValidation)
	}
	for _, item := range i.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return i.InvoiceStatus.Validate()
}

// ComputeTotals derives each line amount, the subtotal, tax and total, and
// resets AmountDue to the full total. Intermediate math keeps full decimal
// precision; the stored amounts are rounded to the currency's smallest unit
// with banker's rounding.
func (i *Invoice) ComputeTotals() error {
	if err := i.Validate(); err != nil {
		return err
	}

	subtotal := decimal.Zero
	for _, item := range i.LineItems {
		item.Amount = item.ComputeAmount()
		subtotal = subtotal.Add(item.Amount)
	}

	tax := subtotal.Mul(i.TaxRate)
	total := subtotal.Add(tax)

	i.Subtotal = types.RoundToCurrency(subtotal, i.Currency)
	i.Tax = types.RoundToCurrency(tax, i.Currency)
	i.Total = types.RoundToCurrency(total, i.Currency)
	i.AmountDue = i.Total
	return nil
}

// Outstanding is the amount still owed on the invoice, used to bound
// credit notes and payments.
func (i *Invoice) Outstanding() decimal.Decimal {
	return i.AmountDue
}
