package service

import (
	"context"

	"github.com/billflow/billflow/internal/api/dto"
	"github.com/billflow/billflow/internal/domain/invoice"
	"github.com/billflow/billflow/internal/domain/payment"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PaymentService defines the interface for payment operations
type PaymentService interface {
	CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error)
	GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error)
	UpdatePayment(ctx context.Context, id string, req *dto.UpdatePaymentRequest) (*dto.PaymentResponse, error)
	DeletePayment(ctx context.Context, id string) error
}

type paymentService struct {
	ServiceParams
}

// NewPaymentService creates a new payment service
func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{
		ServiceParams: params,
	}
}

func (s *paymentService) CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.InvoiceStatus == types.InvoiceStatusDraft {
		return nil, ierr.NewError("draft invoices cannot accept payments").
			WithHint("Finalize the invoice before recording payments").
			WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
			Mark(ierr.ErrInvalidOperation)
	}

	pay := req.ToPayment(ctx)
	if !types.IsMatchingCurrency(pay.Currency, inv.Currency) {
		return nil, ierr.NewError("payment currency does not match invoice").
			WithHint("Payment must use the invoice's currency").
			WithReportableDetails(map[string]any{
				"payment_currency": pay.Currency,
				"invoice_currency": inv.Currency,
			}).
			Mark(ierr.ErrValidation)
	}
	if err := pay.Validate(); err != nil {
		return nil, err
	}

	if err := s.PaymentRepo.Create(ctx, pay); err != nil {
		return nil, err
	}

	if pay.PaymentStatus == types.PaymentStatusCompleted {
		if err := s.settleInvoice(ctx, inv, pay); err != nil {
			return nil, err
		}
	}

	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("recorded payment",
		"payment_id", pay.ID,
		"invoice_id", pay.InvoiceID,
		"amount", pay.Amount,
		"method", pay.Method)
	return &dto.PaymentResponse{Payment: pay}, nil
}

// settleInvoice reduces the invoice's balance by the completed payment. A
// payment covering the full outstanding amount marks the invoice paid.
func (s *paymentService) settleInvoice(ctx context.Context, inv *invoice.Invoice, pay *payment.Payment) error {
	remaining := inv.Outstanding().Sub(pay.Amount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	inv.AmountDue = types.RoundToCurrency(remaining, inv.Currency)
	if inv.AmountDue.IsZero() {
		inv.InvoiceStatus = types.InvoiceStatusPaid
	}
	inv.Touch(ctx)

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return err
	}

	if inv.InvoiceStatus == types.InvoiceStatusPaid {
		s.Logger.Infow("invoice settled",
			"invoice_id", inv.ID,
			"invoice_number", inv.InvoiceNumber,
			"payment_id", pay.ID)
	}
	return nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	if id == "" {
		return nil, ierr.NewError("payment id is required").
			WithHint("Payment ID is required").
			Mark(ierr.ErrValidation)
	}

	pay, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.PaymentResponse{Payment: pay}, nil
}

func (s *paymentService) ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error) {
	if filter == nil {
		filter = types.NewPaymentFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.PaymentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListPaymentsResponse{
		Items: lo.Map(payments, func(p *payment.Payment, _ int) *dto.PaymentResponse {
			return &dto.PaymentResponse{Payment: p}
		}),
		Pagination: types.NewPaginationResponse(total, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *paymentService) UpdatePayment(ctx context.Context, id string, req *dto.UpdatePaymentRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pay, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	wasCompleted := pay.PaymentStatus == types.PaymentStatusCompleted
	if req.Status != nil {
		pay.PaymentStatus = *req.Status
	}
	if req.Reference != nil {
		pay.Reference = *req.Reference
	}
	if req.FailureReason != nil {
		pay.FailureReason = *req.FailureReason
	}
	if req.Metadata != nil {
		pay.Metadata = req.Metadata
	}

	pay.Touch(ctx)
	if err := s.PaymentRepo.Update(ctx, pay); err != nil {
		return nil, err
	}

	// A pending payment confirmed after the fact settles the same way a
	// directly completed one does.
	if !wasCompleted && pay.PaymentStatus == types.PaymentStatusCompleted {
		inv, err := s.InvoiceRepo.Get(ctx, pay.InvoiceID)
		if err != nil {
			return nil, err
		}
		if err := s.settleInvoice(ctx, inv, pay); err != nil {
			return nil, err
		}
	}

	s.invalidateDashboardCache(ctx)
	return &dto.PaymentResponse{Payment: pay}, nil
}

func (s *paymentService) DeletePayment(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("payment id is required").
			WithHint("Payment ID is required").
			Mark(ierr.ErrValidation)
	}

	pay, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if pay.PaymentStatus == types.PaymentStatusCompleted {
		return ierr.NewError("completed payments cannot be deleted").
			WithHint("Completed payments are part of the revenue record and cannot be deleted").
			WithReportableDetails(map[string]any{"payment_id": id}).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.PaymentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("deleted payment", "payment_id", id)
	return nil
}
