package service

import (
	"context"

	"github.com/billflow/billflow/internal/api/dto"
	"github.com/billflow/billflow/internal/domain/product"
	"github.com/billflow/billflow/internal/domain/subscription"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/samber/lo"
)

// ProductService defines the interface for product operations
type ProductService interface {
	CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter *types.ProductFilter) (*dto.ListProductsResponse, error)
	UpdateProduct(ctx context.Context, id string, req *dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id string) error
}

type productService struct {
	ServiceParams
}

// NewProductService creates a new product service
func NewProductService(params ServiceParams) ProductService {
	return &productService{
		ServiceParams: params,
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prod := req.ToProduct(ctx)
	if err := prod.Validate(); err != nil {
		return nil, err
	}

	if err := s.ProductRepo.Create(ctx, prod); err != nil {
		return nil, err
	}

	s.Logger.Infow("created product", "product_id", prod.ID, "name", prod.Name, "tiers", len(prod.Tiers))
	return &dto.ProductResponse{Product: prod}, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	if id == "" {
		return nil, ierr.NewError("product id is required").
			WithHint("Product ID is required").
			Mark(ierr.ErrValidation)
	}

	prod, err := s.ProductRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ProductResponse{Product: prod}, nil
}

func (s *productService) ListProducts(ctx context.Context, filter *types.ProductFilter) (*dto.ListProductsResponse, error) {
	if filter == nil {
		filter = types.NewProductFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	products, err := s.ProductRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.ProductRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListProductsResponse{
		Items: lo.Map(products, func(p *product.Product, _ int) *dto.ProductResponse {
			return &dto.ProductResponse{Product: p}
		}),
		Pagination: types.NewPaginationResponse(total, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prod, err := s.ProductRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if len(req.Tiers) > 0 {
		prod.Tiers = lo.Map(req.Tiers, func(t dto.PricingTierRequest, _ int) product.PricingTier {
			return product.PricingTier{Amount: t.Amount, BillingCycle: t.BillingCycle}
		})
	}
	if req.Taxable != nil {
		prod.Taxable = *req.Taxable
	}
	if req.Metadata != nil {
		prod.Metadata = req.Metadata
	}

	if err := prod.Validate(); err != nil {
		return nil, err
	}

	prod.Touch(ctx)
	if err := s.ProductRepo.Update(ctx, prod); err != nil {
		return nil, err
	}

	return &dto.ProductResponse{Product: prod}, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("product id is required").
			WithHint("Product ID is required").
			Mark(ierr.ErrValidation)
	}

	// Block deletion while subscriptions still reference the product.
	subs, err := s.SubscriptionRepo.List(ctx, &types.SubscriptionFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
	})
	if err != nil {
		return err
	}
	inUse := lo.ContainsBy(subs, func(sub *subscription.Subscription) bool {
		return sub.ProductID == id && sub.SubscriptionStatus != types.SubscriptionStatusCancelled
	})
	if inUse {
		return ierr.NewError("product has active subscriptions").
			WithHint("Cancel the product's subscriptions before deleting it").
			WithReportableDetails(map[string]any{"product_id": id}).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.ProductRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Infow("deleted product", "product_id", id)
	return nil
}
