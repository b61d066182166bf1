package memory

import (
	"github.com/billflow/billflow/internal/domain/creditnote"
	"github.com/billflow/billflow/internal/domain/customer"
	"github.com/billflow/billflow/internal/domain/invoice"
	"github.com/billflow/billflow/internal/domain/payment"
	"github.com/billflow/billflow/internal/domain/product"
	"github.com/billflow/billflow/internal/domain/subscription"
)

// Repositories bundles every entity store behind its domain interface.
type Repositories struct {
	Customer     customer.Repository
	Product      product.Repository
	Subscription subscription.Repository
	Invoice      invoice.Repository
	Payment      payment.Repository
	CreditNote   creditnote.Repository
}

// NewRepositories creates a fresh set of in-memory stores.
func NewRepositories() *Repositories {
	return &Repositories{
		Customer:     NewInMemoryCustomerStore(),
		Product:      NewInMemoryProductStore(),
		Subscription: NewInMemorySubscriptionStore(),
		Invoice:      NewInMemoryInvoiceStore(),
		Payment:      NewInMemoryPaymentStore(),
		CreditNote:   NewInMemoryCreditNoteStore(),
	}
}
