package types

import (
	ierr "github.com/billflow/billflow/internal/errors"
)

// CustomerStatus is the customer account state.
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

func (s CustomerStatus) Validate() error {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive:
		return nil
	default:
		return ierr.NewError("invalid customer status").
			WithHintf("Customer status %q is not supported", string(s)).
			Mark(ierr.ErrValidation)
	}
}

// SubscriptionStatus is the subscription lifecycle state.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) Validate() error {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusPaused, SubscriptionStatusCancelled:
		return nil
	default:
		return ierr.NewError("invalid subscription status").
			WithHintf("Subscription status %q is not supported", string(s)).
			Mark(ierr.ErrValidation)
	}
}

// InvoiceStatus is the invoice lifecycle state.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

func (s InvoiceStatus) Validate() error {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue:
		return nil
	default:
		return ierr.NewError("invalid invoice status").
			WithHintf("Invoice status %q is not supported", string(s)).
			Mark(ierr.ErrValidation)
	}
}

// PaymentStatus is the payment processing state.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return nil
	default:
		return ierr.NewError("invalid payment status").
			WithHintf("Payment status %q is not supported", string(s)).
			Mark(ierr.ErrValidation)
	}
}

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodStripe       PaymentMethod = "stripe"
)

func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodBankTransfer, PaymentMethodCheck,
		PaymentMethodCash, PaymentMethodPayPal, PaymentMethodStripe:
		return nil
	default:
		return ierr.NewError("invalid payment method").
			WithHintf("Payment method %q is not supported", string(m)).
			Mark(ierr.ErrValidation)
	}
}

// CreditNoteStatus is the credit note lifecycle state. Values keep the
// capitalized form they have always had on the wire.
type CreditNoteStatus string

const (
	CreditNoteStatusOpen    CreditNoteStatus = "Open"
	CreditNoteStatusApplied CreditNoteStatus = "Applied"
	CreditNoteStatusVoided  CreditNoteStatus = "Voided"
)

func (s CreditNoteStatus) Validate() error {
	switch s {
	case CreditNoteStatusOpen, CreditNoteStatusApplied, CreditNoteStatusVoided:
		return nil
	default:
		return ierr.NewError("invalid credit note status").
			WithHintf("Credit note status %q is not supported", string(s)).
			Mark(ierr.ErrValidation)
	}
}

// IsTerminal reports whether the credit note can change state again.
// Applied and Voided are both terminal.
func (s CreditNoteStatus) IsTerminal() bool {
	return s == CreditNoteStatusApplied || s == CreditNoteStatusVoided
}

// CreditNoteReason categorizes why a credit note was issued.
type CreditNoteReason string

const (
	CreditNoteReasonRefund       CreditNoteReason = "Refund"
	CreditNoteReasonAdjustment   CreditNoteReason = "Adjustment"
	CreditNoteReasonDiscount     CreditNoteReason = "Discount"
	CreditNoteReasonBillingError CreditNoteReason = "Billing Error"
	CreditNoteReasonReturn       CreditNoteReason = "Return"
	CreditNoteReasonDamagedGoods CreditNoteReason = "Damaged Goods"
	CreditNoteReasonOther        CreditNoteReason = "Other"
)

func (r CreditNoteReason) Validate() error {
	switch r {
	case CreditNoteReasonRefund, CreditNoteReasonAdjustment, CreditNoteReasonDiscount,
		CreditNoteReasonBillingError, CreditNoteReasonReturn, CreditNoteReasonDamagedGoods,
		CreditNoteReasonOther:
		return nil
	default:
		return ierr.NewError("invalid credit note reason").
			WithHintf("Credit note reason %q is not supported", string(r)).
			Mark(ierr.ErrValidation)
	}
}
