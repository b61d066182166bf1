package creditnote

import (
	"context"

	"github.com/billflow/billflow/internal/types"
)

// Repository defines the interface for credit note persistence
type Repository interface {
	Create(ctx context.Context, cn *CreditNote) error
	Get(ctx context.Context, id string) (*CreditNote, error)
	List(ctx context.Context, filter *types.CreditNoteFilter) ([]*CreditNote, error)
	Count(ctx context.Context, filter *types.CreditNoteFilter) (int, error)
	Update(ctx context.Context, cn *CreditNote) error
	Delete(ctx context.Context, id string) error
}
