package types

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultTopCustomerCount is how many customers the revenue leaderboard keeps.
	DefaultTopCustomerCount = 5
	// DefaultRecentInvoiceCount is how many invoices the recent-invoices panel keeps.
	DefaultRecentInvoiceCount = 10
	// DefaultRevenueMonthCount is how many trailing months the revenue trend keeps.
	DefaultRevenueMonthCount = 6
)

// CustomerRevenue is one row of the per-customer revenue rollup.
type CustomerRevenue struct {
	CustomerID   string          `json:"customer_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Total        decimal.Decimal `json:"total"`
	InvoiceCount int             `json:"invoice_count"`
}

// MonthlyRevenue is one month's worth of collected payments.
type MonthlyRevenue struct {
	Month  time.Time       `json:"month"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// RecentInvoice is one row of the recent-invoices panel, denormalized with
// the customer name for display.
type RecentInvoice struct {
	InvoiceID    string          `json:"invoice_id"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	Status       InvoiceStatus   `json:"status"`
	DueDate      time.Time       `json:"due_date"`
}
