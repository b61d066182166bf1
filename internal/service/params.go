package service

import (
	"context"

	"github.com/billflow/billflow/internal/cache"
	"github.com/billflow/billflow/internal/config"
	"github.com/billflow/billflow/internal/domain/creditnote"
	"github.com/billflow/billflow/internal/domain/customer"
	"github.com/billflow/billflow/internal/domain/invoice"
	"github.com/billflow/billflow/internal/domain/payment"
	"github.com/billflow/billflow/internal/domain/product"
	"github.com/billflow/billflow/internal/domain/subscription"
	"github.com/billflow/billflow/internal/logger"
	"github.com/billflow/billflow/internal/repository/memory"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	CustomerRepo     customer.Repository
	ProductRepo      product.Repository
	SubscriptionRepo subscription.Repository
	InvoiceRepo      invoice.Repository
	PaymentRepo      payment.Repository
	CreditNoteRepo   creditnote.Repository
}

// NewServiceParams wires repositories and shared infrastructure into a
// parameter bundle for the service constructors.
func NewServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	c cache.Cache,
	repos *memory.Repositories,
) ServiceParams {
	return ServiceParams{
		Logger:           log,
		Config:           cfg,
		Cache:            c,
		CustomerRepo:     repos.Customer,
		ProductRepo:      repos.Product,
		SubscriptionRepo: repos.Subscription,
		InvoiceRepo:      repos.Invoice,
		PaymentRepo:      repos.Payment,
		CreditNoteRepo:   repos.CreditNote,
	}
}

// invalidateDashboardCache drops the cached dashboard aggregates so the
// next dashboard read reflects this write. Called from every mutating
// operation that feeds a dashboard metric.
func (p ServiceParams) invalidateDashboardCache(ctx context.Context) {
	if p.Cache != nil {
		p.Cache.Delete(ctx, dashboardMetricsCacheKey)
	}
}
