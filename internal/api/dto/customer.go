package dto

import (
	"context"

	"github.com/billflow/billflow/internal/domain/customer"
	"github.com/billflow/billflow/internal/types"
	"github.com/billflow/billflow/internal/validator"
)

// CreateCustomerRequest represents the request to create a new customer
type CreateCustomerRequest struct {
	Name     string         `json:"name" validate:"required"`
	Email    string         `json:"email" validate:"required,email"`
	Phone    string         `json:"phone,omitempty"`
	Address  AddressRequest `json:"address,omitempty"`
	Metadata types.Metadata `json:"metadata,omitempty"`
}

// AddressRequest represents a postal address in requests
type AddressRequest struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

func (r *CreateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToCustomer converts the request into a domain customer
func (r *CreateCustomerRequest) ToCustomer(ctx context.Context) *customer.Customer {
	return &customer.Customer{
		ID:    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
		Address: customer.Address{
			Street:  r.Address.Street,
			City:    r.Address.City,
			State:   r.Address.State,
			Zip:     r.Address.Zip,
			Country: r.Address.Country,
		},
		CustomerStatus: types.CustomerStatusActive,
		Metadata:       r.Metadata,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

// UpdateCustomerRequest represents the request to update a customer.
// Nil fields are left unchanged.
type UpdateCustomerRequest struct {
	Name     *string               `json:"name,omitempty"`
	Email    *string               `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string               `json:"phone,omitempty"`
	Address  *AddressRequest       `json:"address,omitempty"`
	Status   *types.CustomerStatus `json:"customer_status,omitempty"`
	Metadata types.Metadata        `json:"metadata,omitempty"`
}

func (r *UpdateCustomerRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Status != nil {
		return r.Status.Validate()
	}
	return nil
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	*customer.Customer
}

// ListCustomersResponse represents a paginated list of customers
type ListCustomersResponse struct {
	Items      []*CustomerResponse       `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}
