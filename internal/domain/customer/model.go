package customer

import (
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
)

// Customer is a billable account.
type Customer struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Email          string               `json:"email"`
	Phone          string               `json:"phone,omitempty"`
	Address        Address              `json:"address"`
	CustomerStatus types.CustomerStatus `json:"customer_status"`
	Metadata       types.Metadata       `json:"metadata,omitempty"`
	types.BaseModel
}

// Address is a postal address.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

// Validate checks the customer's required fields.
func (c *Customer) Validate() error {
	if c.Name == "" {
		return ierr.NewError("customer name is required").
			WithHint("Please provide a customer name").
			Mark(ierr.ErrValidation)
	}
	if c.Email == "" {
		return ierr.NewError("customer email is required").
			WithHint("Please provide a customer email").
			Mark(ierr.ErrValidation)
	}
	return c.CustomerStatus.Validate()
}
