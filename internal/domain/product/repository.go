package product

import (
	"context"

	"github.com/billflow/billflow/internal/types"
)

// Repository defines the interface for product persistence
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter *types.ProductFilter) ([]*Product, error)
	Count(ctx context.Context, filter *types.ProductFilter) (int, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}
