package creditnote

import (
	"time"

	"github.com/billflow/billflow/internal/domain/invoice"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/shopspring/decimal"
)

// CreditNote credits part of an invoice back to a customer. Its status
// machine is Open -> Applied or Open -> Voided; both end states are
// terminal.
type CreditNote struct {
	ID               string                 `json:"id"`
	CreditNoteNumber string                 `json:"credit_note_number"`
	CustomerID       string                 `json:"customer_id"`
	InvoiceID        string                 `json:"invoice_id"`
	Amount           decimal.Decimal        `json:"amount"`
	Currency         string                 `json:"currency"`
	Reason           types.CreditNoteReason `json:"reason"`
	Description      string                 `json:"description"`
	CreditNoteDate   time.Time              `json:"credit_note_date"`
	CreditNoteStatus types.CreditNoteStatus `json:"credit_note_status"`
	VoidReason       string                 `json:"void_reason,omitempty"`
	AppliedAt        *time.Time             `json:"applied_at,omitempty"`
	VoidedAt         *time.Time             `json:"voided_at,omitempty"`
	Metadata         types.Metadata         `json:"metadata,omitempty"`
	types.BaseModel
}

// Validate checks the credit note's required fields.
func (cn *CreditNote) Validate() error {
	if cn.CustomerID == "" {
		return ierr.NewError("credit note requires a customer").
			WithHint("Please select a customer").
			Mark(ierr.ErrValidation)
	}
	if cn.InvoiceID == "" {
		return ierr.NewError("credit note requires an invoice").
			WithHint("Please select an invoice").
			Mark(ierr.ErrValidation)
	}
	if cn.Description == "" {
		return ierr.NewError("credit note requires a description").
			WithHint("Please describe the reason for this credit note").
			Mark(ierr.ErrValidation)
	}
	if err := cn.Reason.Validate(); err != nil {
		return err
	}
	return cn.CreditNoteStatus.Validate()
}

// ValidateAmount checks a proposed credit amount against the invoice's
// outstanding balance. The returned error embeds the outstanding total.
func ValidateAmount(amount decimal.Decimal, inv *invoice.Invoice) error {
	if !amount.IsPositive() {
		return ierr.NewError("credit amount must be greater than 0").
			WithHint("Amount must be greater than 0").
			WithReportableDetails(map[string]any{"amount": amount.String()}).
			Mark(ierr.ErrValidation)
	}
	outstanding := inv.Outstanding()
	if amount.GreaterThan(outstanding) {
		return ierr.NewError("credit amount exceeds invoice total").
			WithHintf("Amount cannot exceed invoice total of $%s", outstanding.String()).
			WithReportableDetails(map[string]any{
				"amount":      amount.String(),
				"outstanding": outstanding.String(),
				"invoice_id":  inv.ID,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Apply transitions the credit note to Applied. Only open credit notes
// can be applied.
func (cn *CreditNote) Apply() error {
	if cn.CreditNoteStatus != types.CreditNoteStatusOpen {
		return ierr.NewError("only open credit notes can be applied to invoices").
			WithHintf("This credit note is %s and cannot be applied", cn.CreditNoteStatus).
			WithReportableDetails(map[string]any{"current_status": cn.CreditNoteStatus}).
			Mark(ierr.ErrInvalidOperation)
	}
	now := time.Now().UTC()
	cn.CreditNoteStatus = types.CreditNoteStatusApplied
	cn.AppliedAt = &now
	return nil
}

// Void transitions the credit note to Voided with a mandatory reason.
// Applied credit notes cannot be voided.
func (cn *CreditNote) Void(reason string) error {
	if cn.CreditNoteStatus == types.CreditNoteStatusApplied {
		return ierr.NewError("cannot void a credit note that has been applied to an invoice").
			WithHint("Applied credit notes are final").
			Mark(ierr.ErrInvalidOperation)
	}
	if cn.CreditNoteStatus == types.CreditNoteStatusVoided {
		return ierr.NewError("credit note is already voided").
			WithHint("This credit note has already been voided").
			Mark(ierr.ErrInvalidOperation)
	}
	if reason == "" {
		return ierr.NewError("void reason is required").
			WithHint("Please provide a reason for voiding this credit note").
			Mark(ierr.ErrValidation)
	}
	now := time.Now().UTC()
	cn.CreditNoteStatus = types.CreditNoteStatusVoided
	cn.VoidReason = reason
	cn.VoidedAt = &now
	return nil
}
