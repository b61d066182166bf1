package dto

import (
	"context"
	"time"

	"github.com/billflow/billflow/internal/domain/subscription"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/billflow/billflow/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateSubscriptionRequest represents the request to create a new subscription
type CreateSubscriptionRequest struct {
	CustomerID   string             `json:"customer_id" validate:"required"`
	ProductID    string             `json:"product_id" validate:"required"`
	Amount       decimal.Decimal    `json:"amount"`
	Currency     string             `json:"currency,omitempty"`
	BillingCycle types.BillingCycle `json:"billing_cycle" validate:"required"`
	StartDate    time.Time          `json:"start_date" validate:"required"`
	Metadata     types.Metadata     `json:"metadata,omitempty"`
}

func (r *CreateSubscriptionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Amount.IsNegative() {
		return ierr.NewError("subscription amount cannot be negative").
			WithHint("Amount cannot be negative").
			WithReportableDetails(map[string]any{"amount": r.Amount.String()}).
			Mark(ierr.ErrValidation)
	}
	return r.BillingCycle.Validate()
}

// ToSubscription converts the request into a domain subscription
func (r *CreateSubscriptionRequest) ToSubscription(ctx context.Context) *subscription.Subscription {
	currency := r.Currency
	if currency == "" {
		currency = types.DefaultCurrency
	}
	sub := &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		CustomerID:         r.CustomerID,
		ProductID:          r.ProductID,
		Amount:             r.Amount,
		Currency:           currency,
		BillingCycle:       r.BillingCycle,
		StartDate:          r.StartDate.UTC(),
		SubscriptionStatus: types.SubscriptionStatusActive,
		Metadata:           r.Metadata,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
	sub.ComputeNextBillingDate()
	return sub
}

// UpdateSubscriptionRequest represents the request to update a subscription.
// Changing the amount, cycle or start date recomputes the next billing date.
type UpdateSubscriptionRequest struct {
	Amount       *decimal.Decimal          `json:"amount,omitempty"`
	BillingCycle *types.BillingCycle       `json:"billing_cycle,omitempty"`
	StartDate    *time.Time                `json:"start_date,omitempty"`
	Status       *types.SubscriptionStatus `json:"subscription_status,omitempty"`
	Metadata     types.Metadata            `json:"metadata,omitempty"`
}

func (r *UpdateSubscriptionRequest) Validate() error {
	if r.Amount != nil && r.Amount.IsNegative() {
		return ierr.NewError("subscription amount cannot be negative").
			WithHint("Amount cannot be negative").
			WithReportableDetails(map[string]any{"amount": r.Amount.String()}).
			Mark(ierr.ErrValidation)
	}
	if r.BillingCycle != nil {
		if err := r.BillingCycle.Validate(); err != nil {
			return err
		}
	}
	if r.Status != nil {
		return r.Status.Validate()
	}
	return nil
}

// SubscriptionResponse represents a subscription in API responses
type SubscriptionResponse struct {
	*subscription.Subscription
}

// ListSubscriptionsResponse represents a paginated list of subscriptions
type ListSubscriptionsResponse struct {
	Items      []*SubscriptionResponse  `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}
