package service

import (
	"context"

	"github.com/billflow/billflow/internal/api/dto"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/samber/lo"

	"github.com/billflow/billflow/internal/domain/customer"
)

// CustomerService defines the interface for customer operations
type CustomerService interface {
	CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context, filter *types.CustomerFilter) (*dto.ListCustomersResponse, error)
	UpdateCustomer(ctx context.Context, id string, req *dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type customerService struct {
	ServiceParams
}

// NewCustomerService creates a new customer service
func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{
		ServiceParams: params,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust := req.ToCustomer(ctx)
	if err := cust.Validate(); err != nil {
		return nil, err
	}

	if err := s.CustomerRepo.Create(ctx, cust); err != nil {
		return nil, err
	}

	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("created customer", "customer_id", cust.ID, "email", cust.Email)
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	if id == "" {
		return nil, ierr.NewError("customer id is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation)
	}

	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) ListCustomers(ctx context.Context, filter *types.CustomerFilter) (*dto.ListCustomersResponse, error) {
	if filter == nil {
		filter = types.NewCustomerFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	customers, err := s.CustomerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.CustomerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListCustomersResponse{
		Items: lo.Map(customers, func(c *customer.Customer, _ int) *dto.CustomerResponse {
			return &dto.CustomerResponse{Customer: c}
		}),
		Pagination: types.NewPaginationResponse(total, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, req *dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		cust.Name = *req.Name
	}
	if req.Email != nil {
		cust.Email = *req.Email
	}
	if req.Phone != nil {
		cust.Phone = *req.Phone
	}
	if req.Address != nil {
		cust.Address = customer.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			Zip:     req.Address.Zip,
			Country: req.Address.Country,
		}
	}
	if req.Status != nil {
		cust.CustomerStatus = *req.Status
	}
	if req.Metadata != nil {
		cust.Metadata = req.Metadata
	}

	if err := cust.Validate(); err != nil {
		return nil, err
	}

	cust.Touch(ctx)
	if err := s.CustomerRepo.Update(ctx, cust); err != nil {
		return nil, err
	}

	s.invalidateDashboardCache(ctx)
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("customer id is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := s.CustomerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("deleted customer", "customer_id", id)
	return nil
}
