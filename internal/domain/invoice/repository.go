package invoice

import (
	"context"

	"github.com/billflow/billflow/internal/types"
)

// Repository defines the interface for invoice persistence
type Repository interface {
	Create(ctx context.Context, i *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)
	Update(ctx context.Context, i *Invoice) error
	Delete(ctx context.Context, id string) error
}
