package dto

import (
	"context"
	"time"

	"github.com/billflow/billflow/internal/domain/creditnote"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/billflow/billflow/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateCreditNoteRequest represents the request to create a credit note
// against an invoice
type CreateCreditNoteRequest struct {
	CustomerID  string                 `json:"customer_id" validate:"required"`
	InvoiceID   string                 `json:"invoice_id" validate:"required"`
	Amount      decimal.Decimal        `json:"amount"`
	Reason      types.CreditNoteReason `json:"reason" validate:"required"`
	Description string                 `json:"description" validate:"required"`
	Metadata    types.Metadata         `json:"metadata,omitempty"`
}

func (r *CreateCreditNoteRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return ierr.NewError("credit amount must be greater than 0").
			WithHint("Amount must be greater than zero").
			WithReportableDetails(map[string]any{"amount": r.Amount.String()}).
			Mark(ierr.ErrValidation)
	}
	return r.Reason.Validate()
}

// ToCreditNote converts the request into a domain credit note. The caller
// assigns the credit note number and validates the amount against the
// invoice's outstanding balance.
func (r *CreateCreditNoteRequest) ToCreditNote(ctx context.Context, currency string) *creditnote.CreditNote {
	return &creditnote.CreditNote{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CREDIT_NOTE),
		CustomerID:       r.CustomerID,
		InvoiceID:        r.InvoiceID,
		Amount:           r.Amount,
		Currency:         currency,
		Reason:           r.Reason,
		Description:      r.Description,
		CreditNoteDate:   time.Now().UTC(),
		CreditNoteStatus: types.CreditNoteStatusOpen,
		Metadata:         r.Metadata,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
}

// VoidCreditNoteRequest represents the request to void an open credit note
type VoidCreditNoteRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (r *VoidCreditNoteRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// CreditNoteResponse represents a credit note in API responses
type CreditNoteResponse struct {
	*creditnote.CreditNote
}

// ListCreditNotesResponse represents a paginated list of credit notes
type ListCreditNotesResponse struct {
	Items      []*CreditNoteResponse    `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}
