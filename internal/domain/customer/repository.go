package customer

import (
	"context"

	"github.com/billflow/billflow/internal/types"
)

// Repository defines the interface for customer persistence
type Repository interface {
	// Create creates a new customer
	Create(ctx context.Context, c *Customer) error

	// Get fetches a customer by its ID
	Get(ctx context.Context, id string) (*Customer, error)

	// List returns customers matching the filter
	List(ctx context.Context, filter *types.CustomerFilter) ([]*Customer, error)

	// Count returns the total number of customers matching the filter
	Count(ctx context.Context, filter *types.CustomerFilter) (int, error)

	// Update updates an existing customer
	Update(ctx context.Context, c *Customer) error

	// Delete removes a customer by its ID
	Delete(ctx context.Context, id string) error
}
