package dto

import (
	"context"

	"github.com/billflow/billflow/internal/domain/product"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/billflow/billflow/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents the request to create a new product
type CreateProductRequest struct {
	Name        string               `json:"name" validate:"required"`
	Description string               `json:"description,omitempty"`
	Tiers       []PricingTierRequest `json:"pricing_tiers" validate:"required,min=1,dive"`
	Taxable     bool                 `json:"taxable"`
	Metadata    types.Metadata       `json:"metadata,omitempty"`
}

// PricingTierRequest represents one price point of a product
type PricingTierRequest struct {
	Amount       decimal.Decimal    `json:"amount"`
	BillingCycle types.BillingCycle `json:"billing_cycle" validate:"required"`
}

func (t PricingTierRequest) Validate() error {
	if t.Amount.IsNegative() {
		return ierr.NewError("tier amount cannot be negative").
			WithHint("Tier amounts cannot be negative").
			WithReportableDetails(map[string]any{"amount": t.Amount.String()}).
			Mark(ierr.ErrValidation)
	}
	return t.BillingCycle.Validate()
}

func (r *CreateProductRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	for _, tier := range r.Tiers {
		if err := tier.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToProduct converts the request into a domain product
func (r *CreateProductRequest) ToProduct(ctx context.Context) *product.Product {
	return &product.Product{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRODUCT),
		Name:        r.Name,
		Description: r.Description,
		Tiers: lo.Map(r.Tiers, func(t PricingTierRequest, _ int) product.PricingTier {
			return product.PricingTier{Amount: t.Amount, BillingCycle: t.BillingCycle}
		}),
		Taxable:   r.Taxable,
		Metadata:  r.Metadata,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

// UpdateProductRequest represents the request to update a product.
// Nil fields are left unchanged; providing tiers replaces the full set.
type UpdateProductRequest struct {
	Name        *string              `json:"name,omitempty"`
	Description *string              `json:"description,omitempty"`
	Tiers       []PricingTierRequest `json:"pricing_tiers,omitempty" validate:"omitempty,min=1,dive"`
	Taxable     *bool                `json:"taxable,omitempty"`
	Metadata    types.Metadata       `json:"metadata,omitempty"`
}

func (r *UpdateProductRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	for _, tier := range r.Tiers {
		if err := tier.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	*product.Product
}

// ListProductsResponse represents a paginated list of products
type ListProductsResponse struct {
	Items      []*ProductResponse       `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}
