package service

import (
	"context"
	"sort"
	"time"

	"github.com/billflow/billflow/internal/api/dto"
	"github.com/billflow/billflow/internal/cache"
	"github.com/billflow/billflow/internal/domain/customer"
	"github.com/billflow/billflow/internal/domain/invoice"
	"github.com/billflow/billflow/internal/domain/payment"
	"github.com/billflow/billflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const dashboardMetricsCacheKey = "dashboard:metrics"

// DashboardService provides dashboard functionality
type DashboardService interface {
	GetMetrics(ctx context.Context) (*dto.DashboardMetricsResponse, error)
	InvalidateMetrics(ctx context.Context)
}

type dashboardService struct {
	ServiceParams
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(params ServiceParams) DashboardService {
	return &dashboardService{
		ServiceParams: params,
	}
}

// GetMetrics computes the dashboard aggregates. Results are cached for a
// short window since every panel on the dashboard hits this at once.
func (s *dashboardService) GetMetrics(ctx context.Context) (*dto.DashboardMetricsResponse, error) {
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, dashboardMetricsCacheKey); ok {
			if metrics, ok := cache.UnmarshalCacheValue[dto.DashboardMetricsResponse](cached); ok {
				return metrics, nil
			}
		}
	}

	metrics, err := s.computeMetrics(ctx)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, dashboardMetricsCacheKey, metrics, cache.ExpiryDashboardMetrics)
	}
	return metrics, nil
}

// InvalidateMetrics drops the cached aggregates after a write that should
// reflect immediately.
func (s *dashboardService) InvalidateMetrics(ctx context.Context) {
	s.invalidateDashboardCache(ctx)
}

func (s *dashboardService) computeMetrics(ctx context.Context) (*dto.DashboardMetricsResponse, error) {
	noLimit := types.NewNoLimitQueryFilter()

	customers, err := s.CustomerRepo.List(ctx, &types.CustomerFilter{QueryFilter: noLimit})
	if err != nil {
		return nil, err
	}
	subs, err := s.SubscriptionRepo.List(ctx, &types.SubscriptionFilter{QueryFilter: noLimit})
	if err != nil {
		return nil, err
	}
	invoices, err := s.InvoiceRepo.List(ctx, &types.InvoiceFilter{QueryFilter: noLimit})
	if err != nil {
		return nil, err
	}
	payments, err := s.PaymentRepo.List(ctx, &types.PaymentFilter{QueryFilter: noLimit})
	if err != nil {
		return nil, err
	}
	openCreditNotes, err := s.CreditNoteRepo.Count(ctx, &types.CreditNoteFilter{
		QueryFilter: noLimit,
		Status:      types.CreditNoteStatusOpen,
	})
	if err != nil {
		return nil, err
	}

	metrics := &dto.DashboardMetricsResponse{
		TotalRevenue:            decimal.Zero,
		MonthlyRecurringRevenue: decimal.Zero,
		PendingPayments:         decimal.Zero,
		OverdueAmount:           decimal.Zero,
		TotalInvoices:           len(invoices),
		OpenCreditNotes:         openCreditNotes,
	}

	for _, c := range customers {
		if c.CustomerStatus == types.CustomerStatusActive {
			metrics.ActiveCustomers++
		}
	}

	// MRR normalizes each active subscription to its monthly equivalent.
	// One-time subscriptions carry no recurring revenue.
	for _, sub := range subs {
		if sub.SubscriptionStatus != types.SubscriptionStatusActive {
			continue
		}
		metrics.ActiveSubscriptions++
		if monthly, ok := sub.BillingCycle.MonthlyAmount(sub.Amount); ok {
			metrics.MonthlyRecurringRevenue = metrics.MonthlyRecurringRevenue.Add(monthly)
		}
	}
	metrics.MonthlyRecurringRevenue = types.RoundToCurrency(metrics.MonthlyRecurringRevenue, types.DefaultCurrency)

	for _, inv := range invoices {
		switch inv.InvoiceStatus {
		case types.InvoiceStatusPending:
			metrics.PendingPayments = metrics.PendingPayments.Add(inv.Total)
		case types.InvoiceStatusOverdue:
			metrics.OverdueAmount = metrics.OverdueAmount.Add(inv.Total)
		}
	}

	for _, pay := range payments {
		if pay.PaymentStatus == types.PaymentStatusCompleted {
			metrics.TotalRevenue = metrics.TotalRevenue.Add(pay.Amount)
		}
	}

	metrics.TopCustomers = s.topCustomers(customers, invoices)
	metrics.RevenueByMonth = s.revenueByMonth(ctx, payments)
	metrics.RecentInvoices = s.recentInvoices(customers, invoices)

	return metrics, nil
}

// topCustomers ranks customers by their total invoiced amount, dropping
// anyone without billable activity.
func (s *dashboardService) topCustomers(customers []*customer.Customer, invoices []*invoice.Invoice) []types.CustomerRevenue {
	byCustomer := make(map[string]*types.CustomerRevenue, len(customers))
	for _, c := range customers {
		byCustomer[c.ID] = &types.CustomerRevenue{
			CustomerID: c.ID,
			Name:       c.Name,
			Email:      c.Email,
			Total:      decimal.Zero,
		}
	}

	for _, inv := range invoices {
		row, ok := byCustomer[inv.CustomerID]
		if !ok {
			continue
		}
		row.Total = row.Total.Add(inv.Total)
		row.InvoiceCount++
	}

	rows := lo.FilterMap(lo.Values(byCustomer), func(row *types.CustomerRevenue, _ int) (types.CustomerRevenue, bool) {
		return *row, row.Total.IsPositive()
	})
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Total.Equal(rows[j].Total) {
			return rows[i].Total.GreaterThan(rows[j].Total)
		}
		return rows[i].CustomerID < rows[j].CustomerID
	})

	if len(rows) > types.DefaultTopCustomerCount {
		rows = rows[:types.DefaultTopCustomerCount]
	}
	return rows
}

// revenueByMonth buckets completed payments into the trailing months,
// oldest first, including empty months so the trend has no gaps.
func (s *dashboardService) revenueByMonth(_ context.Context, payments []*payment.Payment) []types.MonthlyRevenue {
	now := time.Now().UTC()
	months := make([]types.MonthlyRevenue, 0, types.DefaultRevenueMonthCount)
	index := make(map[string]int, types.DefaultRevenueMonthCount)

	for i := types.DefaultRevenueMonthCount - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		key := month.Format("2006-01")
		index[key] = len(months)
		months = append(months, types.MonthlyRevenue{
			Month:  month,
			Label:  month.Format("Jan 2006"),
			Amount: decimal.Zero,
		})
	}

	for _, pay := range payments {
		if pay.PaymentStatus != types.PaymentStatusCompleted {
			continue
		}
		key := pay.PaymentDate.UTC().Format("2006-01")
		if pos, ok := index[key]; ok {
			months[pos].Amount = months[pos].Amount.Add(pay.Amount)
		}
	}
	return months
}

// recentInvoices returns the newest invoices denormalized with customer
// names for display.
func (s *dashboardService) recentInvoices(customers []*customer.Customer, invoices []*invoice.Invoice) []types.RecentInvoice {
	names := make(map[string]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	sorted := make([]*invoice.Invoice, len(invoices))
	copy(sorted, invoices)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if len(sorted) > types.DefaultRecentInvoiceCount {
		sorted = sorted[:types.DefaultRecentInvoiceCount]
	}

	return lo.Map(sorted, func(inv *invoice.Invoice, _ int) types.RecentInvoice {
		name := names[inv.CustomerID]
		if name == "" {
			name = "Unknown customer"
		}
		return types.RecentInvoice{
			InvoiceID:    inv.ID,
			CustomerName: name,
			Amount:       inv.Total,
			Status:       inv.InvoiceStatus,
			DueDate:      inv.DueDate,
		}
	})
}
