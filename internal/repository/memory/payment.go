package memory

import (
	"context"

	"github.com/billflow/billflow/internal/domain/payment"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/samber/lo"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Payment]
}

// NewInMemoryPaymentStore creates a new in-memory payment store
func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Payment](),
	}
}

func copyPayment(p *payment.Payment) *payment.Payment {
	if p == nil {
		return nil
	}
	copied := *p
	if p.GatewayOrderID != nil {
		id := *p.GatewayOrderID
		copied.GatewayOrderID = &id
	}
	if p.GatewayCaptureID != nil {
		id := *p.GatewayCaptureID
		copied.GatewayCaptureID = &id
	}
	copied.Metadata = lo.Assign(map[string]string{}, p.Metadata)
	return &copied
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return ierr.NewError("payment cannot be nil").
			WithHint("Payment cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, p.ID, copyPayment(p))
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Payment not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyPayment(p), nil
}

func (s *InMemoryPaymentStore) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	if filter == nil {
		filter = types.NewPaymentFilter()
	}
	payments, err := s.InMemoryStore.List(ctx, filter, paymentFilterFn, paymentSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(payments, func(p *payment.Payment, _ int) *payment.Payment {
		return copyPayment(p)
	}), nil
}

func (s *InMemoryPaymentStore) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, paymentFilterFn)
}

func (s *InMemoryPaymentStore) Update(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return ierr.NewError("payment cannot be nil").
			WithHint("Payment cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, p.ID, copyPayment(p))
}

func (s *InMemoryPaymentStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

func (s *InMemoryPaymentStore) GetByGatewayOrderID(ctx context.Context, orderID string) (*payment.Payment, error) {
	if orderID == "" {
		return nil, ierr.NewError("gateway order id cannot be empty").
			WithHint("Gateway order id cannot be empty").
			Mark(ierr.ErrValidation)
	}

	payments, err := s.InMemoryStore.List(ctx, types.NewNoLimitQueryFilter(), nil, paymentSortFn)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		if p.GatewayOrderID != nil && *p.GatewayOrderID == orderID {
			return copyPayment(p), nil
		}
	}
	return nil, ierr.NewError("payment not found").
		WithHint("No payment matches this gateway order").
		WithReportableDetails(map[string]any{"gateway_order_id": orderID}).
		Mark(ierr.ErrNotFound)
}

func paymentFilterFn(ctx context.Context, p *payment.Payment, filter interface{}) bool {
	if p == nil {
		return false
	}
	f, ok := filter.(*types.PaymentFilter)
	if !ok || f == nil {
		return true
	}
	if f.InvoiceID != "" && p.InvoiceID != f.InvoiceID {
		return false
	}
	if f.Status != "" && p.PaymentStatus != f.Status {
		return false
	}
	if f.Method != "" && p.Method != f.Method {
		return false
	}
	return true
}

func paymentSortFn(i, j *payment.Payment) bool {
	if i == nil || j == nil {
		return false
	}
	if !i.CreatedAt.Equal(j.CreatedAt) {
		return i.CreatedAt.After(j.CreatedAt)
	}
	return i.ID > j.ID
}
