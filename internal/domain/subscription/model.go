package subscription

import (
	"time"

	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/shopspring/decimal"
)

// Subscription is a recurring charge for a product against a customer.
// NextBillingDate is derived from StartDate and the billing cycle; it is
// nil for one-time subscriptions.
type Subscription struct {
	ID                 string                   `json:"id"`
	CustomerID         string                   `json:"customer_id"`
	ProductID          string                   `json:"product_id"`
	Amount             decimal.Decimal          `json:"amount"`
	Currency           string                   `json:"currency"`
	BillingCycle       types.BillingCycle       `json:"billing_cycle"`
	StartDate          time.Time                `json:"start_date"`
	NextBillingDate    *time.Time               `json:"next_billing_date,omitempty"`
	SubscriptionStatus types.SubscriptionStatus `json:"subscription_status"`
	Metadata           types.Metadata           `json:"metadata,omitempty"`
	types.BaseModel
}

// Validate checks the subscription's required fields.
func (s *Subscription) Validate() error {
	if s.CustomerID == "" {
		return ierr.NewError("subscription requires a customer").
			WithHint("Please select a customer").
			Mark(ierr.ErrValidation)
	}
	if s.ProductID == "" {
		return ierr.NewError("subscription requires a product").
			WithHint("Please select a product").
			Mark(ierr.ErrValidation)
	}
	if s.Amount.IsNegative() {
		return ierr.NewError("subscription amount must be non-negative").
			WithHint("Amount cannot be negative").
			WithReportableDetails(map[string]any{"amount": s.Amount.String()}).
			Mark(ierr.ErrValidation)
	}
	if s.StartDate.IsZero() {
		return ierr.NewError("subscription requires a start date").
			WithHint("Please provide a start date").
			Mark(ierr.ErrValidation)
	}
	if err := s.BillingCycle.Validate(); err != nil {
		return err
	}
	return s.SubscriptionStatus.Validate()
}

// ComputeNextBillingDate recalculates NextBillingDate from the start date
// and billing cycle. One-time subscriptions clear it.
func (s *Subscription) ComputeNextBillingDate() {
	if !s.BillingCycle.IsRecurring() {
		s.NextBillingDate = nil
		return
	}
	next, err := s.BillingCycle.NextBillingDate(s.StartDate)
	if err != nil {
		s.NextBillingDate = nil
		return
	}
	s.NextBillingDate = &next
}
