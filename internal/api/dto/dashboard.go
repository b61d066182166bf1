package dto

import (
	"github.com/billflow/billflow/internal/types"
	"github.com/shopspring/decimal"
)

// DashboardMetricsResponse aggregates the headline numbers shown on the
// dashboard.
type DashboardMetricsResponse struct {
	// TotalRevenue is the sum of all completed payments
	TotalRevenue decimal.Decimal `json:"total_revenue"`

	// MonthlyRecurringRevenue normalizes active subscriptions to a
	// monthly amount
	MonthlyRecurringRevenue decimal.Decimal `json:"monthly_recurring_revenue"`

	// PendingPayments is the sum of totals on pending invoices
	PendingPayments decimal.Decimal `json:"pending_payments"`

	// OverdueAmount is the sum of totals on overdue invoices
	OverdueAmount decimal.Decimal `json:"overdue_amount"`

	ActiveCustomers     int `json:"active_customers"`
	ActiveSubscriptions int `json:"active_subscriptions"`
	TotalInvoices       int `json:"total_invoices"`
	OpenCreditNotes     int `json:"open_credit_notes"`

	TopCustomers   []types.CustomerRevenue `json:"top_customers"`
	RevenueByMonth []types.MonthlyRevenue  `json:"revenue_by_month"`
	RecentInvoices []types.RecentInvoice   `json:"recent_invoices"`
}
