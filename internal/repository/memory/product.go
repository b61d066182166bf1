package memory

import (
	"context"
	"strings"

	"github.com/billflow/billflow/internal/domain/product"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/samber/lo"
)

// InMemoryProductStore implements product.Repository
type InMemoryProductStore struct {
	*InMemoryStore[*product.Product]
}

// NewInMemoryProductStore creates a new in-memory product store
func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		InMemoryStore: NewInMemoryStore[*product.Product](),
	}
}

func copyProduct(p *product.Product) *product.Product {
	if p == nil {
		return nil
	}
	copied := *p
	copied.Tiers = append([]product.PricingTier{}, p.Tiers...)
	copied.Metadata = lo.Assign(map[string]string{}, p.Metadata)
	return &copied
}

func (s *InMemoryProductStore) Create(ctx context.Context, p *product.Product) error {
	if p == nil {
		return ierr.NewError("product cannot be nil").
			WithHint("Product cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, p.ID, copyProduct(p))
}

func (s *InMemoryProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Product not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyProduct(p), nil
}

func (s *InMemoryProductStore) List(ctx context.Context, filter *types.ProductFilter) ([]*product.Product, error) {
	if filter == nil {
		filter = types.NewProductFilter()
	}
	products, err := s.InMemoryStore.List(ctx, filter, productFilterFn, productSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(products, func(p *product.Product, _ int) *product.Product {
		return copyProduct(p)
	}), nil
}

func (s *InMemoryProductStore) Count(ctx context.Context, filter *types.ProductFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, productFilterFn)
}

func (s *InMemoryProductStore) Update(ctx context.Context, p *product.Product) error {
	if p == nil {
		return ierr.NewError("product cannot be nil").
			WithHint("Product cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, p.ID, copyProduct(p))
}

func (s *InMemoryProductStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

func productFilterFn(ctx context.Context, p *product.Product, filter interface{}) bool {
	if p == nil {
		return false
	}
	f, ok := filter.(*types.ProductFilter)
	if !ok || f == nil {
		return true
	}
	if len(f.ProductIDs) > 0 && !lo.Contains(f.ProductIDs, p.ID) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	return true
}

func productSortFn(i, j *product.Product) bool {
	if i == nil || j == nil {
		return false
	}
	if !i.CreatedAt.Equal(j.CreatedAt) {
		return i.CreatedAt.After(j.CreatedAt)
	}
	return i.ID > j.ID
}
