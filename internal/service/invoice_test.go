package service

import (
	"testing"
	"time"

	"github.com/billflow/billflow/internal/api/dto"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/testutil"
	"github.com/billflow/billflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service         InvoiceService
	customerService CustomerService
	params          ServiceParams
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = NewServiceParams(s.GetLogger(), s.GetConfig(), s.GetCache(), s.GetStores())
	s.service = NewInvoiceService(s.params)
	s.customerService = NewCustomerService(s.params)
}

func (s *InvoiceServiceSuite) createCustomer() string {
	resp, err := s.customerService.CreateCustomer(s.GetContext(), &dto.CreateCustomerRequest{
		Name:  "Acme Corp",
		Email: "billing@acme.test",
	})
	s.Require().NoError(err)
	return resp.ID
}

func (s *InvoiceServiceSuite) createInvoice(customerID string) *dto.InvoiceResponse {
	resp, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		CustomerID: customerID,
		LineItems: []dto.LineItemRequest{
			{ProductID: "prod_test_1", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)},
			{ProductID: "prod_test_2", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5)},
		},
		TaxRate: decimal.NewFromFloat(0.1),
		DueDate: time.Now().UTC().Add(14 * 24 * time.Hour),
	})
	s.Require().NoError(err)
	return resp
}

func (s *InvoiceServiceSuite) TestCreateInvoice() {
	customerID := s.createCustomer()
	resp := s.createInvoice(customerID)

	s.Equal("INV-1001", resp.InvoiceNumber)
	s.Equal(types.InvoiceStatusDraft, resp.InvoiceStatus)
	s.True(decimal.NewFromInt(25).Equal(resp.Subtotal), "subtotal %s", resp.Subtotal)
	s.True(decimal.NewFromFloat(2.5).Equal(resp.Tax))
	s.True(decimal.NewFromFloat(27.5).Equal(resp.Total))
	s.True(resp.Total.Equal(resp.AmountDue))

	second := s.createInvoice(customerID)
	s.Equal("INV-1002", second.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceUnknownCustomer() {
	_, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		CustomerID: "cust_missing",
		LineItems: []dto.LineItemRequest{
			{ProductID: "prod_test_1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
		DueDate: time.Now().UTC(),
	})
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestFinalizeInvoice() {
	customerID := s.createCustomer()
	inv := s.createInvoice(customerID)

	resp, err := s.service.FinalizeInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPending, resp.InvoiceStatus)

	// Finalizing twice is rejected.
	_, err = s.service.FinalizeInvoice(s.GetContext(), inv.ID)
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestMarkInvoiceOverdue() {
	customerID := s.createCustomer()
	inv := s.createInvoice(customerID)

	// Draft invoices cannot go overdue.
	_, err := s.service.MarkInvoiceOverdue(s.GetContext(), inv.ID)
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.FinalizeInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)

	resp, err := s.service.MarkInvoiceOverdue(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusOverdue, resp.InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceRecomputesTotals() {
	customerID := s.createCustomer()
	inv := s.createInvoice(customerID)

	taxRate := decimal.Zero
	resp, err := s.service.UpdateInvoice(s.GetContext(), inv.ID, &dto.UpdateInvoiceRequest{
		LineItems: []dto.LineItemRequest{
			{ProductID: "prod_test_1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
		TaxRate: &taxRate,
	})
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(100).Equal(resp.Total), "total %s", resp.Total)
	s.True(decimal.NewFromInt(100).Equal(resp.AmountDue))
}

func (s *InvoiceServiceSuite) TestUpdateKeepsSettledAmountCredited() {
	customerID := s.createCustomer()
	paymentService := NewPaymentService(s.params)

	inv, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		CustomerID: customerID,
		LineItems: []dto.LineItemRequest{
			{ProductID: "prod_test_1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
		DueDate: time.Now().UTC().Add(14 * 24 * time.Hour),
	})
	s.Require().NoError(err)
	_, err = s.service.FinalizeInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)

	_, err = paymentService.CreatePayment(s.GetContext(), &dto.CreatePaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(40),
		Method:    types.PaymentMethodBankTransfer,
	})
	s.Require().NoError(err)

	// Reshaping the invoice keeps the $40 already settled against it.
	resp, err := s.service.UpdateInvoice(s.GetContext(), inv.ID, &dto.UpdateInvoiceRequest{
		LineItems: []dto.LineItemRequest{
			{ProductID: "prod_test_1", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(100).Equal(resp.Total), "total %s", resp.Total)
	s.True(decimal.NewFromInt(60).Equal(resp.AmountDue), "amount due %s", resp.AmountDue)

	// Shrinking the invoice below the settled amount floors at zero and
	// marks it paid.
	resp, err = s.service.UpdateInvoice(s.GetContext(), inv.ID, &dto.UpdateInvoiceRequest{
		LineItems: []dto.LineItemRequest{
			{ProductID: "prod_test_1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(30)},
		},
	})
	s.Require().NoError(err)
	s.True(resp.AmountDue.IsZero(), "amount due %s", resp.AmountDue)
	s.Equal(types.InvoiceStatusPaid, resp.InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestUpdatePaidInvoiceBlocked() {
	customerID := s.createCustomer()
	inv := s.createInvoice(customerID)

	paid := types.InvoiceStatusPaid
	_, err := s.service.UpdateInvoice(s.GetContext(), inv.ID, &dto.UpdateInvoiceRequest{Status: &paid})
	s.Require().NoError(err)

	_, err = s.service.UpdateInvoice(s.GetContext(), inv.ID, &dto.UpdateInvoiceRequest{
		LineItems: []dto.LineItemRequest{
			{ProductID: "prod_test_1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)},
		},
	})
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestMarkPaidZeroesAmountDue() {
	customerID := s.createCustomer()
	inv := s.createInvoice(customerID)

	paid := types.InvoiceStatusPaid
	resp, err := s.service.UpdateInvoice(s.GetContext(), inv.ID, &dto.UpdateInvoiceRequest{Status: &paid})
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, resp.InvoiceStatus)
	s.True(resp.AmountDue.IsZero())
}

func (s *InvoiceServiceSuite) TestDeleteInvoice() {
	customerID := s.createCustomer()
	inv := s.createInvoice(customerID)

	s.Require().NoError(s.service.DeleteInvoice(s.GetContext(), inv.ID))
	_, err := s.service.GetInvoice(s.GetContext(), inv.ID)
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestInvoiceNumbersNotReusedAfterDelete() {
	customerID := s.createCustomer()
	first := s.createInvoice(customerID)
	second := s.createInvoice(customerID)
	s.Equal("INV-1001", first.InvoiceNumber)
	s.Equal("INV-1002", second.InvoiceNumber)

	s.Require().NoError(s.service.DeleteInvoice(s.GetContext(), first.ID))

	third := s.createInvoice(customerID)
	s.Equal("INV-1003", third.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestDeletePaidInvoiceBlocked() {
	customerID := s.createCustomer()
	inv := s.createInvoice(customerID)

	paid := types.InvoiceStatusPaid
	_, err := s.service.UpdateInvoice(s.GetContext(), inv.ID, &dto.UpdateInvoiceRequest{Status: &paid})
	s.Require().NoError(err)

	err = s.service.DeleteInvoice(s.GetContext(), inv.ID)
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestListInvoices() {
	customerID := s.createCustomer()
	s.createInvoice(customerID)
	s.createInvoice(customerID)

	filter := types.NewInvoiceFilter()
	filter.CustomerID = customerID
	resp, err := s.service.ListInvoices(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(2, resp.Pagination.Total)
}
