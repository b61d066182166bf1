package payment

import (
	"context"

	"github.com/billflow/billflow/internal/types"
)

// Repository defines the interface for payment persistence
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	List(ctx context.Context, filter *types.PaymentFilter) ([]*Payment, error)
	Count(ctx context.Context, filter *types.PaymentFilter) (int, error)
	Update(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, id string) error

	// GetByGatewayOrderID fetches a payment by the gateway's order id.
	// Used by webhook handlers to reconcile asynchronous captures.
	GetByGatewayOrderID(ctx context.Context, orderID string) (*Payment, error)
}
