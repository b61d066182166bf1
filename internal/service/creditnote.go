package service

import (
	"context"
	"fmt"
	"time"

	"github.com/billflow/billflow/internal/api/dto"
	"github.com/billflow/billflow/internal/domain/creditnote"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/samber/lo"
)

// CreditNoteService defines the interface for credit note operations
type CreditNoteService interface {
	CreateCreditNote(ctx context.Context, req *dto.CreateCreditNoteRequest) (*dto.CreditNoteResponse, error)
	GetCreditNote(ctx context.Context, id string) (*dto.CreditNoteResponse, error)
	ListCreditNotes(ctx context.Context, filter *types.CreditNoteFilter) (*dto.ListCreditNotesResponse, error)
	ApplyCreditNote(ctx context.Context, id string) (*dto.CreditNoteResponse, error)
	VoidCreditNote(ctx context.Context, id string, req *dto.VoidCreditNoteRequest) (*dto.CreditNoteResponse, error)
}

type creditNoteService struct {
	ServiceParams
}

// NewCreditNoteService creates a new credit note service
func NewCreditNoteService(params ServiceParams) CreditNoteService {
	return &creditNoteService{
		ServiceParams: params,
	}
}

func (s *creditNoteService) CreateCreditNote(ctx context.Context, req *dto.CreateCreditNoteRequest) (*dto.CreditNoteResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.CustomerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	inv, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.CustomerID != req.CustomerID {
		return nil, ierr.NewError("invoice belongs to a different customer").
			WithHint("The invoice must belong to the selected customer").
			WithReportableDetails(map[string]any{
				"invoice_id":  req.InvoiceID,
				"customer_id": req.CustomerID,
			}).
			Mark(ierr.ErrValidation)
	}

	if err := creditnote.ValidateAmount(req.Amount, inv); err != nil {
		return nil, err
	}

	cn := req.ToCreditNote(ctx, inv.Currency)

	number, err := s.nextCreditNoteNumber(ctx)
	if err != nil {
		return nil, err
	}
	cn.CreditNoteNumber = number

	if err := cn.Validate(); err != nil {
		return nil, err
	}

	if err := s.CreditNoteRepo.Create(ctx, cn); err != nil {
		return nil, err
	}

	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("created credit note",
		"credit_note_id", cn.ID,
		"credit_note_number", cn.CreditNoteNumber,
		"invoice_id", cn.InvoiceID,
		"amount", cn.Amount)
	return &dto.CreditNoteResponse{CreditNote: cn}, nil
}

func (s *creditNoteService) GetCreditNote(ctx context.Context, id string) (*dto.CreditNoteResponse, error) {
	if id == "" {
		return nil, ierr.NewError("credit note id is required").
			WithHint("Credit note ID is required").
			Mark(ierr.ErrValidation)
	}

	cn, err := s.CreditNoteRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CreditNoteResponse{CreditNote: cn}, nil
}

func (s *creditNoteService) ListCreditNotes(ctx context.Context, filter *types.CreditNoteFilter) (*dto.ListCreditNotesResponse, error) {
	if filter == nil {
		filter = types.NewCreditNoteFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	creditNotes, err := s.CreditNoteRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.CreditNoteRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListCreditNotesResponse{
		Items: lo.Map(creditNotes, func(cn *creditnote.CreditNote, _ int) *dto.CreditNoteResponse {
			return &dto.CreditNoteResponse{CreditNote: cn}
		}),
		Pagination: types.NewPaginationResponse(total, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

// ApplyCreditNote applies an open credit note to its invoice, reducing the
// outstanding balance. A fully credited invoice becomes paid.
func (s *creditNoteService) ApplyCreditNote(ctx context.Context, id string) (*dto.CreditNoteResponse, error) {
	cn, err := s.CreditNoteRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, cn.InvoiceID)
	if err != nil {
		return nil, err
	}

	// Re-check against the live balance; other credits or payments may
	// have landed since the note was created.
	if err := creditnote.ValidateAmount(cn.Amount, inv); err != nil {
		return nil, err
	}

	if err := cn.Apply(); err != nil {
		return nil, err
	}

	inv.AmountDue = types.RoundToCurrency(inv.AmountDue.Sub(cn.Amount), inv.Currency)
	if inv.AmountDue.IsZero() {
		inv.InvoiceStatus = types.InvoiceStatusPaid
	}
	inv.AppliedCreditNoteID = &cn.ID
	inv.Touch(ctx)

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	cn.Touch(ctx)
	if err := s.CreditNoteRepo.Update(ctx, cn); err != nil {
		return nil, err
	}

	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("applied credit note",
		"credit_note_id", cn.ID,
		"credit_note_number", cn.CreditNoteNumber,
		"invoice_id", inv.ID,
		"amount", cn.Amount,
		"amount_due", inv.AmountDue)
	return &dto.CreditNoteResponse{CreditNote: cn}, nil
}

// VoidCreditNote voids an open credit note. Applied notes cannot be voided.
func (s *creditNoteService) VoidCreditNote(ctx context.Context, id string, req *dto.VoidCreditNoteRequest) (*dto.CreditNoteResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cn, err := s.CreditNoteRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := cn.Void(req.Reason); err != nil {
		return nil, err
	}

	cn.Touch(ctx)
	if err := s.CreditNoteRepo.Update(ctx, cn); err != nil {
		return nil, err
	}

	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("voided credit note",
		"credit_note_id", cn.ID,
		"credit_note_number", cn.CreditNoteNumber,
		"reason", req.Reason)
	return &dto.CreditNoteResponse{CreditNote: cn}, nil
}

// nextCreditNoteNumber assigns yearly sequential display numbers like
// CN-2025-004. The sequence continues from the highest number already
// issued for the current year, so deletions never cause reuse.
func (s *creditNoteService) nextCreditNoteNumber(ctx context.Context) (string, error) {
	notes, err := s.CreditNoteRepo.List(ctx, &types.CreditNoteFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
	})
	if err != nil {
		return "", err
	}
	year := time.Now().UTC().Year()
	next := 1
	for _, cn := range notes {
		var y, seq int
		if _, err := fmt.Sscanf(cn.CreditNoteNumber, "CN-%d-%d", &y, &seq); err == nil && y == year && seq >= next {
			next = seq + 1
		}
	}
	return fmt.Sprintf("CN-%d-%03d", year, next), nil
}
