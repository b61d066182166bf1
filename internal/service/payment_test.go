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

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service         PaymentService
	invoiceService  InvoiceService
	customerService CustomerService
	params          ServiceParams
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = NewServiceParams(s.GetLogger(), s.GetConfig(), s.GetCache(), s.GetStores())
	s.service = NewPaymentService(s.params)
	s.invoiceService = NewInvoiceService(s.params)
	s.customerService = NewCustomerService(s.params)
}

// pendingInvoice creates a finalized invoice with a $27.50 balance.
func (s *PaymentServiceSuite) pendingInvoice() *dto.InvoiceResponse {
	cust, err := s.customerService.CreateCustomer(s.GetContext(), &dto.CreateCustomerRequest{
		Name:  "Globex Inc",
		Email: "ap@globex.test",
	})
	s.Require().NoError(err)

	inv, err := s.invoiceService.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		CustomerID: cust.ID,
		LineItems: []dto.LineItemRequest{
			{ProductID: "prod_test_1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(25)},
		},
		TaxRate: decimal.NewFromFloat(0.1),
		DueDate: time.Now().UTC().Add(14 * 24 * time.Hour),
	})
	s.Require().NoError(err)

	finalized, err := s.invoiceService.FinalizeInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	return finalized
}

func (s *PaymentServiceSuite) TestCreatePaymentSettlesInvoice() {
	inv := s.pendingInvoice()

	resp, err := s.service.CreatePayment(s.GetContext(), &dto.CreatePaymentRequest{
		InvoiceID: inv.ID,
		Amount:    inv.AmountDue,
		Method:    types.PaymentMethodCreditCard,
	})
	s.Require().NoError(err)
	s.Equal(types.PaymentStatusCompleted, resp.PaymentStatus)

	settled, err := s.invoiceService.GetInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, settled.InvoiceStatus)
	s.True(settled.AmountDue.IsZero())
}

func (s *PaymentServiceSuite) TestPartialPaymentReducesBalance() {
	inv := s.pendingInvoice()

	_, err := s.service.CreatePayment(s.GetContext(), &dto.CreatePaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(10),
		Method:    types.PaymentMethodBankTransfer,
	})
	s.Require().NoError(err)

	updated, err := s.invoiceService.GetInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPending, updated.InvoiceStatus)
	s.True(decimal.NewFromFloat(17.5).Equal(updated.AmountDue), "amount due %s", updated.AmountDue)
}

func (s *PaymentServiceSuite) TestOverpaymentFloorsAtZero() {
	inv := s.pendingInvoice()

	_, err := s.service.CreatePayment(s.GetContext(), &dto.CreatePaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(100),
		Method:    types.PaymentMethodCash,
	})
	s.Require().NoError(err)

	settled, err := s.invoiceService.GetInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.True(settled.AmountDue.IsZero())
	s.Equal(types.InvoiceStatusPaid, settled.InvoiceStatus)
}

func (s *PaymentServiceSuite) TestDraftInvoiceRejectsPayments() {
	cust, err := s.customerService.CreateCustomer(s.GetContext(), &dto.CreateCustomerRequest{
		Name:  "Initech LLC",
		Email: "ap@initech.test",
	})
	s.Require().NoError(err)

	draft, err := s.invoiceService.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		CustomerID: cust.ID,
		LineItems: []dto.LineItemRequest{
			{ProductID: "prod_test_1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)},
		},
		DueDate: time.Now().UTC(),
	})
	s.Require().NoError(err)

	_, err = s.service.CreatePayment(s.GetContext(), &dto.CreatePaymentRequest{
		InvoiceID: draft.ID,
		Amount:    decimal.NewFromInt(50),
		Method:    types.PaymentMethodCheck,
	})
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentServiceSuite) TestCurrencyMismatchRejected() {
	inv := s.pendingInvoice()

	_, err := s.service.CreatePayment(s.GetContext(), &dto.CreatePaymentRequest{
		InvoiceID: inv.ID,
		Amount:    inv.AmountDue,
		Currency:  "eur",
		Method:    types.PaymentMethodCreditCard,
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentServiceSuite) TestConfirmPendingPaymentSettles() {
	inv := s.pendingInvoice()

	created, err := s.service.CreatePayment(s.GetContext(), &dto.CreatePaymentRequest{
		InvoiceID: inv.ID,
		Amount:    inv.AmountDue,
		Method:    types.PaymentMethodBankTransfer,
	})
	s.Require().NoError(err)

	// Reset to pending, then confirm.
	pending := types.PaymentStatusPending
	pay, err := s.params.PaymentRepo.Get(s.GetContext(), created.ID)
	s.Require().NoError(err)
	pay.PaymentStatus = pending
	s.Require().NoError(s.params.PaymentRepo.Update(s.GetContext(), pay))

	// Reset the invoice too so settlement is observable.
	rawInv, err := s.params.InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	rawInv.InvoiceStatus = types.InvoiceStatusPending
	rawInv.AmountDue = rawInv.Total
	s.Require().NoError(s.params.InvoiceRepo.Update(s.GetContext(), rawInv))

	completed := types.PaymentStatusCompleted
	_, err = s.service.UpdatePayment(s.GetContext(), created.ID, &dto.UpdatePaymentRequest{Status: &completed})
	s.Require().NoError(err)

	settled, err := s.invoiceService.GetInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, settled.InvoiceStatus)
}

func (s *PaymentServiceSuite) TestDeleteCompletedPaymentBlocked() {
	inv := s.pendingInvoice()

	created, err := s.service.CreatePayment(s.GetContext(), &dto.CreatePaymentRequest{
		InvoiceID: inv.ID,
		Amount:    inv.AmountDue,
		Method:    types.PaymentMethodCreditCard,
	})
	s.Require().NoError(err)

	err = s.service.DeletePayment(s.GetContext(), created.ID)
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentServiceSuite) TestListPaymentsByInvoice() {
	inv := s.pendingInvoice()

	_, err := s.service.CreatePayment(s.GetContext(), &dto.CreatePaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(5),
		Method:    types.PaymentMethodCash,
	})
	s.Require().NoError(err)
	_, err = s.service.CreatePayment(s.GetContext(), &dto.CreatePaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(5),
		Method:    types.PaymentMethodCash,
	})
	s.Require().NoError(err)

	filter := types.NewPaymentFilter()
	filter.InvoiceID = inv.ID
	resp, err := s.service.ListPayments(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(2, resp.Pagination.Total)
}
