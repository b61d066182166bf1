package service

import (
	"context"
	"fmt"

	"github.com/billflow/billflow/internal/api/dto"
	"github.com/billflow/billflow/internal/domain/invoice"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const invoiceNumberBase = 1001

// InvoiceService defines the interface for invoice operations
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	UpdateInvoice(ctx context.Context, id string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	FinalizeInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	MarkInvoiceOverdue(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error
}

type invoiceService struct {
	ServiceParams
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.CustomerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	inv := req.ToInvoice(ctx)

	number, err := s.nextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}
	inv.InvoiceNumber = number

	if err := inv.ComputeTotals(); err != nil {
		return nil, err
	}

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"customer_id", inv.CustomerID,
		"total", inv.Total)
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	if id == "" {
		return nil, ierr.NewError("invoice id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListInvoicesResponse{
		Items: lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
			return &dto.InvoiceResponse{Invoice: inv}
		}),
		Pagination: types.NewPaginationResponse(total, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.InvoiceStatus == types.InvoiceStatusPaid && (len(req.LineItems) > 0 || req.TaxRate != nil) {
		return nil, ierr.NewError("paid invoices cannot be reshaped").
			WithHint("Line items and tax rate are frozen once an invoice is paid").
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrInvalidOperation)
	}

	settled := inv.Total.Sub(inv.AmountDue)

	recompute := false
	if len(req.LineItems) > 0 {
		inv.LineItems = lo.Map(req.LineItems, func(l dto.LineItemRequest, _ int) *invoice.LineItem {
			return &invoice.LineItem{
				ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LINE_ITEM),
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			}
		})
		recompute = true
	}
	if req.TaxRate != nil {
		inv.TaxRate = *req.TaxRate
		recompute = true
	}
	if req.DueDate != nil {
		inv.DueDate = req.DueDate.UTC()
	}
	if req.Status != nil {
		inv.InvoiceStatus = *req.Status
		if *req.Status == types.InvoiceStatusPaid {
			inv.AmountDue = decimal.Zero
		}
	}
	if req.Metadata != nil {
		inv.Metadata = req.Metadata
	}

	if recompute {
		// Credit already settled against the invoice survives the
		// recompute; ComputeTotals resets AmountDue to the full total.
		if err := inv.ComputeTotals(); err != nil {
			return nil, err
		}
		remaining := inv.Total.Sub(settled)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		inv.AmountDue = types.RoundToCurrency(remaining, inv.Currency)
		if inv.InvoiceStatus == types.InvoiceStatusPaid {
			inv.AmountDue = decimal.Zero
		} else if inv.AmountDue.IsZero() && inv.InvoiceStatus == types.InvoiceStatusPending {
			inv.InvoiceStatus = types.InvoiceStatusPaid
		}
	}

	inv.Touch(ctx)
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.invalidateDashboardCache(ctx)
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

// FinalizeInvoice moves a draft invoice to pending so payments can be
// recorded against it.
func (s *invoiceService) FinalizeInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.InvoiceStatus != types.InvoiceStatusDraft {
		return nil, ierr.NewError("only draft invoices can be finalized").
			WithHint("Only draft invoices can be finalized").
			WithReportableDetails(map[string]any{
				"invoice_id": id,
				"status":     inv.InvoiceStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	inv.InvoiceStatus = types.InvoiceStatusPending
	inv.Touch(ctx)
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("finalized invoice", "invoice_id", id, "invoice_number", inv.InvoiceNumber)
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

// MarkInvoiceOverdue flags a pending invoice whose due date has passed.
func (s *invoiceService) MarkInvoiceOverdue(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.InvoiceStatus != types.InvoiceStatusPending {
		return nil, ierr.NewError("only pending invoices can become overdue").
			WithHint("Only pending invoices can become overdue").
			WithReportableDetails(map[string]any{
				"invoice_id": id,
				"status":     inv.InvoiceStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	inv.InvoiceStatus = types.InvoiceStatusOverdue
	inv.Touch(ctx)
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.invalidateDashboardCache(ctx)
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("invoice id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if inv.InvoiceStatus == types.InvoiceStatusPaid {
		return ierr.NewError("paid invoices cannot be deleted").
			WithHint("Paid invoices are part of the revenue record and cannot be deleted").
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.InvoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("deleted invoice", "invoice_id", id, "invoice_number", inv.InvoiceNumber)
	return nil
}

// nextInvoiceNumber assigns sequential display numbers. The sequence
// continues from the highest number already issued, so a deleted
// invoice never frees its number for reuse.
func (s *invoiceService) nextInvoiceNumber(ctx context.Context) (string, error) {
	invoices, err := s.InvoiceRepo.List(ctx, &types.InvoiceFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
	})
	if err != nil {
		return "", err
	}
	next := invoiceNumberBase
	for _, inv := range invoices {
		var seq int
		if _, err := fmt.Sscanf(inv.InvoiceNumber, "INV-%d", &seq); err == nil && seq >= next {
			next = seq + 1
		}
	}
	return fmt.Sprintf("INV-%d", next), nil
}
