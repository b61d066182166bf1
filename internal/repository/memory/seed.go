package memory

import (
	"context"
	"time"

	"github.com/billflow/billflow/internal/domain/creditnote"
	"github.com/billflow/billflow/internal/domain/customer"
	"github.com/billflow/billflow/internal/domain/invoice"
	"github.com/billflow/billflow/internal/domain/payment"
	"github.com/billflow/billflow/internal/domain/product"
	"github.com/billflow/billflow/internal/domain/subscription"
	"github.com/billflow/billflow/internal/types"
	"github.com/shopspring/decimal"
)

// Seed loads a small coherent dataset so a fresh deployment has
// something to show on the dashboard. Entities reference each other by
// id, and invoice totals are derived the same way the services derive
// them.
func Seed(ctx context.Context, repos *Repositories) error {
	now := time.Now().UTC()
	base := func(age time.Duration) types.BaseModel {
		bm := types.GetDefaultBaseModel(ctx)
		bm.CreatedAt = now.Add(-age)
		bm.UpdatedAt = bm.CreatedAt
		return bm
	}

	customers := []*customer.Customer{
		{
			ID:    "cust_seed_acme",
			Name:  "Acme Corporation",
			Email: "billing@acme.example",
			Phone: "+1-555-0101",
			Address: customer.Address{
				Street:  "100 Market St",
				City:    "San Francisco",
				State:   "CA",
				Zip:     "94105",
				Country: "US",
			},
			CustomerStatus: types.CustomerStatusActive,
			BaseModel:      base(90 * 24 * time.Hour),
		},
		{
			ID:    "cust_seed_globex",
			Name:  "Globex Industries",
			Email: "accounts@globex.example",
			Phone: "+1-555-0102",
			Address: customer.Address{
				Street:  "42 Commerce Ave",
				City:    "Austin",
				State:   "TX",
				Zip:     "78701",
				Country: "US",
			},
			CustomerStatus: types.CustomerStatusActive,
			BaseModel:      base(60 * 24 * time.Hour),
		},
		{
			ID:             "cust_seed_initech",
			Name:           "Initech LLC",
			Email:          "ap@initech.example",
			CustomerStatus: types.CustomerStatusInactive,
			BaseModel:      base(30 * 24 * time.Hour),
		},
	}
	for _, c := range customers {
		if err := repos.Customer.Create(ctx, c); err != nil {
			return err
		}
	}

	products := []*product.Product{
		{
			ID:          "prod_seed_starter",
			Name:        "Starter Plan",
			Description: "Entry tier with core features",
			Tiers: []product.PricingTier{
				{Amount: decimal.NewFromInt(29), BillingCycle: types.BillingCycleMonthly},
				{Amount: decimal.NewFromInt(290), BillingCycle: types.BillingCycleYearly},
			},
			Taxable:   true,
			BaseModel: base(90 * 24 * time.Hour),
		},
		{
			ID:          "prod_seed_pro",
			Name:        "Professional Plan",
			Description: "Full feature set for growing teams",
			Tiers: []product.PricingTier{
				{Amount: decimal.NewFromInt(99), BillingCycle: types.BillingCycleMonthly},
				{Amount: decimal.NewFromInt(270), BillingCycle: types.BillingCycleQuarterly},
				{Amount: decimal.NewFromInt(990), BillingCycle: types.BillingCycleYearly},
			},
			Taxable:   true,
			BaseModel: base(90 * 24 * time.Hour),
		},
		{
			ID:          "prod_seed_onboarding",
			Name:        "Onboarding Package",
			Description: "One-time guided setup",
			Tiers: []product.PricingTier{
				{Amount: decimal.NewFromInt(500), BillingCycle: types.BillingCycleOneTime},
			},
			Taxable:   false,
			BaseModel: base(90 * 24 * time.Hour),
		},
	}
	for _, p := range products {
		if err := repos.Product.Create(ctx, p); err != nil {
			return err
		}
	}

	subscriptions := []*subscription.Subscription{
		{
			ID:                 "subs_seed_acme_pro",
			CustomerID:         "cust_seed_acme",
			ProductID:          "prod_seed_pro",
			Amount:             decimal.NewFromInt(99),
			Currency:           types.DefaultCurrency,
			BillingCycle:       types.BillingCycleMonthly,
			StartDate:          now.AddDate(0, -3, 0),
			SubscriptionStatus: types.SubscriptionStatusActive,
			BaseModel:          base(90 * 24 * time.Hour),
		},
		{
			ID:                 "subs_seed_globex_starter",
			CustomerID:         "cust_seed_globex",
			ProductID:          "prod_seed_starter",
			Amount:             decimal.NewFromInt(290),
			Currency:           types.DefaultCurrency,
			BillingCycle:       types.BillingCycleYearly,
			StartDate:          now.AddDate(0, -2, 0),
			SubscriptionStatus: types.SubscriptionStatusActive,
			BaseModel:          base(60 * 24 * time.Hour),
		},
		{
			ID:                 "subs_seed_initech_pro",
			CustomerID:         "cust_seed_initech",
			ProductID:          "prod_seed_pro",
			Amount:             decimal.NewFromInt(270),
			Currency:           types.DefaultCurrency,
			BillingCycle:       types.BillingCycleQuarterly,
			StartDate:          now.AddDate(0, -1, 0),
			SubscriptionStatus: types.SubscriptionStatusPaused,
			BaseModel:          base(30 * 24 * time.Hour),
		},
	}
	for _, s := range subscriptions {
		s.ComputeNextBillingDate()
		if err := repos.Subscription.Create(ctx, s); err != nil {
			return err
		}
	}

	invoices := []*invoice.Invoice{
		{
			ID:            "inv_seed_1001",
			InvoiceNumber: "INV-1001",
			CustomerID:    "cust_seed_acme",
			LineItems: []*invoice.LineItem{
				{ID: "li_seed_1001_1", ProductID: "prod_seed_pro", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(99)},
				{ID: "li_seed_1001_2", ProductID: "prod_seed_onboarding", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(500)},
			},
			TaxRate:       decimal.RequireFromString("0.1"),
			Currency:      types.DefaultCurrency,
			DueDate:       now.AddDate(0, -2, 14),
			InvoiceStatus: types.InvoiceStatusPaid,
			BaseModel:     base(75 * 24 * time.Hour),
		},
		{
			ID:            "inv_seed_1002",
			InvoiceNumber: "INV-1002",
			CustomerID:    "cust_seed_globex",
			LineItems: []*invoice.LineItem{
				{ID: "li_seed_1002_1", ProductID: "prod_seed_starter", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(290)},
			},
			TaxRate:       decimal.RequireFromString("0.1"),
			Currency:      types.DefaultCurrency,
			DueDate:       now.AddDate(0, 0, 14),
			InvoiceStatus: types.InvoiceStatusPending,
			BaseModel:     base(10 * 24 * time.Hour),
		},
		{
			ID:            "inv_seed_1003",
			InvoiceNumber: "INV-1003",
			CustomerID:    "cust_seed_initech",
			LineItems: []*invoice.LineItem{
				{ID: "li_seed_1003_1", ProductID: "prod_seed_pro", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(270)},
			},
			TaxRate:       decimal.Zero,
			Currency:      types.DefaultCurrency,
			DueDate:       now.AddDate(0, -1, 0),
			InvoiceStatus: types.InvoiceStatusOverdue,
			BaseModel:     base(45 * 24 * time.Hour),
		},
	}
	for _, inv := range invoices {
		if err := inv.ComputeTotals(); err != nil {
			return err
		}
		if inv.InvoiceStatus == types.InvoiceStatusPaid {
			inv.AmountDue = decimal.Zero
		}
		if err := repos.Invoice.Create(ctx, inv); err != nil {
			return err
		}
	}

	payments := []*payment.Payment{
		{
			ID:            "pay_seed_1",
			InvoiceID:     "inv_seed_1001",
			Amount:        decimal.RequireFromString("658.90"),
			Currency:      types.DefaultCurrency,
			Method:        types.PaymentMethodCreditCard,
			Reference:     "ch_seed_acme_1001",
			PaymentDate:   now.AddDate(0, -2, 0),
			PaymentStatus: types.PaymentStatusCompleted,
			BaseModel:     base(60 * 24 * time.Hour),
		},
		{
			ID:            "pay_seed_2",
			InvoiceID:     "inv_seed_1002",
			Amount:        decimal.NewFromInt(100),
			Currency:      types.DefaultCurrency,
			Method:        types.PaymentMethodBankTransfer,
			Reference:     "wire-globex-0042",
			PaymentDate:   now.AddDate(0, 0, -2),
			PaymentStatus: types.PaymentStatusPending,
			BaseModel:     base(2 * 24 * time.Hour),
		},
	}
	for _, p := range payments {
		if err := repos.Payment.Create(ctx, p); err != nil {
			return err
		}
	}

	creditNotes := []*creditnote.CreditNote{
		{
			ID:               "cn_seed_1",
			CreditNoteNumber: "CN-2025-001",
			CustomerID:       "cust_seed_initech",
			InvoiceID:        "inv_seed_1003",
			Amount:           decimal.NewFromInt(50),
			Currency:         types.DefaultCurrency,
			Reason:           types.CreditNoteReasonBillingError,
			Description:      "Duplicate seat charged on quarterly renewal",
			CreditNoteDate:   now.AddDate(0, 0, -5),
			CreditNoteStatus: types.CreditNoteStatusOpen,
			BaseModel:        base(5 * 24 * time.Hour),
		},
	}
	for _, cn := range creditNotes {
		if err := repos.CreditNote.Create(ctx, cn); err != nil {
			return err
		}
	}

	return nil
}
