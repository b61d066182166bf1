package product

import (
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/shopspring/decimal"
)

// Product is a sellable item with one or more pricing tiers.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Tiers       []PricingTier  `json:"pricing_tiers"`
	Taxable     bool           `json:"taxable"`
	Metadata    types.Metadata `json:"metadata,omitempty"`
	types.BaseModel
}

// PricingTier is one price point of a product.
type PricingTier struct {
	Amount       decimal.Decimal    `json:"amount"`
	BillingCycle types.BillingCycle `json:"billing_cycle"`
}

func (t PricingTier) Validate() error {
	if t.Amount.IsNegative() {
		return ierr.NewError("pricing tier amount must be non-negative").
			WithHint("Tier amounts cannot be negative").
			WithReportableDetails(map[string]any{"amount": t.Amount.String()}).
			Mark(ierr.ErrValidation)
	}
	return t.BillingCycle.Validate()
}

// Validate checks the product's required fields and tiers.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ierr.NewError("product name is required").
			WithHint("Please provide a product name").
			Mark(ierr.ErrValidation)
	}
	if len(p.Tiers) == 0 {
		return ierr.NewError("product has no pricing tiers").
			WithHint("Please add at least one pricing tier").
			Mark(ierr.ErrValidation)
	}
	for _, tier := range p.Tiers {
		if err := tier.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// HasTier reports whether the product offers the given amount and cycle.
// Subscriptions are expected, though not required, to match one of the
// product's tiers.
func (p *Product) HasTier(amount decimal.Decimal, cycle types.BillingCycle) bool {
	for _, tier := range p.Tiers {
		if tier.BillingCycle == cycle && tier.Amount.Equal(amount) {
			return true
		}
	}
	return false
}
