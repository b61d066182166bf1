package types

import (
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/samber/lo"
)

const (
	FilterDefaultLimit = 50
	FilterMaxLimit     = 1000
)

// QueryFilter carries the common pagination and ordering options. A nil
// embedded QueryFilter means defaults everywhere.
type QueryFilter struct {
	Limit  *int   `json:"limit,omitempty" form:"limit"`
	Offset *int   `json:"offset,omitempty" form:"offset"`
	Order  string `json:"order,omitempty" form:"order"`
}

// NewDefaultQueryFilter returns a filter with the default page size.
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  lo.ToPtr(FilterDefaultLimit),
		Offset: lo.ToPtr(0),
	}
}

// NewNoLimitQueryFilter returns a filter that fetches everything.
func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{Offset: lo.ToPtr(0)}
}

func (f *QueryFilter) GetLimit() int {
	if f == nil || f.Limit == nil {
		return FilterDefaultLimit
	}
	return *f.Limit
}

func (f *QueryFilter) GetOffset() int {
	if f == nil || f.Offset == nil {
		return 0
	}
	return *f.Offset
}

// IsUnlimited reports whether pagination is disabled.
func (f *QueryFilter) IsUnlimited() bool {
	return f != nil && f.Limit == nil
}

func (f *QueryFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Limit != nil && (*f.Limit <= 0 || *f.Limit > FilterMaxLimit) {
		return ierr.NewError("invalid limit").
			WithHintf("Limit must be between 1 and %d", FilterMaxLimit).
			WithReportableDetails(map[string]any{"limit": *f.Limit}).
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("invalid offset").
			WithHint("Offset must be non-negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CustomerFilter narrows customer lists.
type CustomerFilter struct {
	*QueryFilter
	CustomerIDs []string       `json:"customer_ids,omitempty" form:"customer_ids"`
	Status      CustomerStatus `json:"status,omitempty" form:"status"`
	Search      string         `json:"search,omitempty" form:"search"`
}

func NewCustomerFilter() *CustomerFilter {
	return &CustomerFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *CustomerFilter) Validate() error {
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.Status != "" {
		return f.Status.Validate()
	}
	return nil
}

// ProductFilter narrows product lists.
type ProductFilter struct {
	*QueryFilter
	ProductIDs []string `json:"product_ids,omitempty" form:"product_ids"`
	Search     string   `json:"search,omitempty" form:"search"`
}

func NewProductFilter() *ProductFilter {
	return &ProductFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *ProductFilter) Validate() error {
	return f.QueryFilter.Validate()
}

// SubscriptionFilter narrows subscription lists.
type SubscriptionFilter struct {
	*QueryFilter
	SubscriptionIDs []string           `json:"subscription_ids,omitempty" form:"subscription_ids"`
	CustomerID      string             `json:"customer_id,omitempty" form:"customer_id"`
	Status          SubscriptionStatus `json:"subscription_status,omitempty" form:"subscription_status"`
}

func NewSubscriptionFilter() *SubscriptionFilter {
	return &SubscriptionFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *SubscriptionFilter) Validate() error {
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.Status != "" {
		return f.Status.Validate()
	}
	return nil
}

// InvoiceFilter narrows invoice lists.
type InvoiceFilter struct {
	*QueryFilter
	InvoiceIDs []string      `json:"invoice_ids,omitempty" form:"invoice_ids"`
	CustomerID string        `json:"customer_id,omitempty" form:"customer_id"`
	Status     InvoiceStatus `json:"invoice_status,omitempty" form:"invoice_status"`
}

func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *InvoiceFilter) Validate() error {
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.Status != "" {
		return f.Status.Validate()
	}
	return nil
}

// PaymentFilter narrows payment lists.
type PaymentFilter struct {
	*QueryFilter
	InvoiceID string        `json:"invoice_id,omitempty" form:"invoice_id"`
	Status    PaymentStatus `json:"payment_status,omitempty" form:"payment_status"`
	Method    PaymentMethod `json:"payment_method,omitempty" form:"payment_method"`
}

func NewPaymentFilter() *PaymentFilter {
	return &PaymentFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *PaymentFilter) Validate() error {
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.Status != "" {
		if err := f.Status.Validate(); err != nil {
			return err
		}
	}
	if f.Method != "" {
		return f.Method.Validate()
	}
	return nil
}

// CreditNoteFilter narrows credit note lists.
type CreditNoteFilter struct {
	*QueryFilter
	CustomerID string           `json:"customer_id,omitempty" form:"customer_id"`
	InvoiceID  string           `json:"invoice_id,omitempty" form:"invoice_id"`
	Status     CreditNoteStatus `json:"credit_note_status,omitempty" form:"credit_note_status"`
	Search     string           `json:"search,omitempty" form:"search"`
}

func NewCreditNoteFilter() *CreditNoteFilter {
	return &CreditNoteFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *CreditNoteFilter) Validate() error {
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.Status != "" {
		return f.Status.Validate()
	}
	return nil
}

// PaginationResponse is the paging envelope returned by list endpoints.
type PaginationResponse struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func NewPaginationResponse(total, limit, offset int) PaginationResponse {
	return PaginationResponse{Total: total, Limit: limit, Offset: offset}
}
