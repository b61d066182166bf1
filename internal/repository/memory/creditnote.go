package memory

import (
	"context"
	"strings"

	"github.com/billflow/billflow/internal/domain/creditnote"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/samber/lo"
)

// InMemoryCreditNoteStore implements creditnote.Repository
type InMemoryCreditNoteStore struct {
	*InMemoryStore[*creditnote.CreditNote]
}

// NewInMemoryCreditNoteStore creates a new in-memory credit note store
func NewInMemoryCreditNoteStore() *InMemoryCreditNoteStore {
	return &InMemoryCreditNoteStore{
		InMemoryStore: NewInMemoryStore[*creditnote.CreditNote](),
	}
}

func copyCreditNote(cn *creditnote.CreditNote) *creditnote.CreditNote {
	if cn == nil {
		return nil
	}
	copied := *cn
	if cn.AppliedAt != nil {
		t := *cn.AppliedAt
		copied.AppliedAt = &t
	}
	if cn.VoidedAt != nil {
		t := *cn.VoidedAt
		copied.VoidedAt = &t
	}
	copied.Metadata = lo.Assign(map[string]string{}, cn.Metadata)
	return &copied
}

func (s *InMemoryCreditNoteStore) Create(ctx context.Context, cn *creditnote.CreditNote) error {
	if cn == nil {
		return ierr.NewError("credit note cannot be nil").
			WithHint("Credit note cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, cn.ID, copyCreditNote(cn))
}

func (s *InMemoryCreditNoteStore) Get(ctx context.Context, id string) (*creditnote.CreditNote, error) {
	cn, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Credit note not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyCreditNote(cn), nil
}

func (s *InMemoryCreditNoteStore) List(ctx context.Context, filter *types.CreditNoteFilter) ([]*creditnote.CreditNote, error) {
	if filter == nil {
		filter = types.NewCreditNoteFilter()
	}
	creditNotes, err := s.InMemoryStore.List(ctx, filter, creditNoteFilterFn, creditNoteSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(creditNotes, func(cn *creditnote.CreditNote, _ int) *creditnote.CreditNote {
		return copyCreditNote(cn)
	}), nil
}

func (s *InMemoryCreditNoteStore) Count(ctx context.Context, filter *types.CreditNoteFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, creditNoteFilterFn)
}

func (s *InMemoryCreditNoteStore) Update(ctx context.Context, cn *creditnote.CreditNote) error {
	if cn == nil {
		return ierr.NewError("credit note cannot be nil").
			WithHint("Credit note cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, cn.ID, copyCreditNote(cn))
}

func (s *InMemoryCreditNoteStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

func creditNoteFilterFn(ctx context.Context, cn *creditnote.CreditNote, filter interface{}) bool {
	if cn == nil {
		return false
	}
	f, ok := filter.(*types.CreditNoteFilter)
	if !ok || f == nil {
		return true
	}
	if f.CustomerID != "" && cn.CustomerID != f.CustomerID {
		return false
	}
	if f.InvoiceID != "" && cn.InvoiceID != f.InvoiceID {
		return false
	}
	if f.Status != "" && cn.CreditNoteStatus != f.Status {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(cn.CreditNoteNumber), q) &&
			!strings.Contains(strings.ToLower(cn.Description), q) {
			return false
		}
	}
	return true
}

func creditNoteSortFn(i, j *creditnote.CreditNote) bool {
	if i == nil || j == nil {
		return false
	}
	if !i.CreatedAt.Equal(j.CreatedAt) {
		return i.CreatedAt.After(j.CreatedAt)
	}
	return i.ID > j.ID
}
