package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/billflow/billflow/internal/api/dto"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/testutil"
	"github.com/billflow/billflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CreditNoteServiceSuite struct {
	testutil.BaseServiceTestSuite
	service         CreditNoteService
	invoiceService  InvoiceService
	customerService CustomerService
	params          ServiceParams
	customerID      string
	invoiceID       string
}

func TestCreditNoteService(t *testing.T) {
	suite.Run(t, new(CreditNoteServiceSuite))
}

func (s *CreditNoteServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = NewServiceParams(s.GetLogger(), s.GetConfig(), s.GetCache(), s.GetStores())
	s.service = NewCreditNoteService(s.params)
	s.invoiceService = NewInvoiceService(s.params)
	s.customerService = NewCustomerService(s.params)

	cust, err := s.customerService.CreateCustomer(s.GetContext(), &dto.CreateCustomerRequest{
		Name:  "Acme Corp",
		Email: "billing@acme.test",
	})
	s.Require().NoError(err)
	s.customerID = cust.ID

	// A pending invoice with a $100 balance.
	inv, err := s.invoiceService.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		CustomerID: s.customerID,
		LineItems: []dto.LineItemRequest{
			{ProductID: "prod_test_1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
		DueDate: time.Now().UTC().Add(14 * 24 * time.Hour),
	})
	s.Require().NoError(err)
	_, err = s.invoiceService.FinalizeInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.invoiceID = inv.ID
}

func (s *CreditNoteServiceSuite) createCreditNote(amount decimal.Decimal) *dto.CreditNoteResponse {
	resp, err := s.service.CreateCreditNote(s.GetContext(), &dto.CreateCreditNoteRequest{
		CustomerID:  s.customerID,
		InvoiceID:   s.invoiceID,
		Amount:      amount,
		Reason:      types.CreditNoteReasonBillingError,
		Description: "Overcharged for seats",
	})
	s.Require().NoError(err)
	return resp
}

func (s *CreditNoteServiceSuite) TestCreateCreditNote() {
	cn := s.createCreditNote(decimal.NewFromInt(50))

	year := time.Now().UTC().Year()
	s.Equal(fmt.Sprintf("CN-%d-001", year), cn.CreditNoteNumber)
	s.Equal(types.CreditNoteStatusOpen, cn.CreditNoteStatus)
	s.Equal("usd", cn.Currency)

	second := s.createCreditNote(decimal.NewFromInt(10))
	s.Equal(fmt.Sprintf("CN-%d-002", year), second.CreditNoteNumber)
}

func (s *CreditNoteServiceSuite) TestCreditNoteNumbersNotReusedAfterDelete() {
	first := s.createCreditNote(decimal.NewFromInt(20))
	second := s.createCreditNote(decimal.NewFromInt(10))

	s.Require().NoError(s.params.CreditNoteRepo.Delete(s.GetContext(), first.ID))

	third := s.createCreditNote(decimal.NewFromInt(5))
	year := time.Now().UTC().Year()
	s.NotEqual(second.CreditNoteNumber, third.CreditNoteNumber)
	s.Equal(fmt.Sprintf("CN-%d-003", year), third.CreditNoteNumber)
}

func (s *CreditNoteServiceSuite) TestCreateExceedingBalanceRejected() {
	_, err := s.service.CreateCreditNote(s.GetContext(), &dto.CreateCreditNoteRequest{
		CustomerID:  s.customerID,
		InvoiceID:   s.invoiceID,
		Amount:      decimal.NewFromInt(150),
		Reason:      types.CreditNoteReasonRefund,
		Description: "Refund request",
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CreditNoteServiceSuite) TestCreateForWrongCustomerRejected() {
	other, err := s.customerService.CreateCustomer(s.GetContext(), &dto.CreateCustomerRequest{
		Name:  "Globex Inc",
		Email: "ap@globex.test",
	})
	s.Require().NoError(err)

	_, err = s.service.CreateCreditNote(s.GetContext(), &dto.CreateCreditNoteRequest{
		CustomerID:  other.ID,
		InvoiceID:   s.invoiceID,
		Amount:      decimal.NewFromInt(10),
		Reason:      types.CreditNoteReasonAdjustment,
		Description: "Goodwill credit",
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CreditNoteServiceSuite) TestApplyCreditNote() {
	cn := s.createCreditNote(decimal.NewFromInt(40))

	applied, err := s.service.ApplyCreditNote(s.GetContext(), cn.ID)
	s.Require().NoError(err)
	s.Equal(types.CreditNoteStatusApplied, applied.CreditNoteStatus)

	inv, err := s.invoiceService.GetInvoice(s.GetContext(), s.invoiceID)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(60).Equal(inv.AmountDue), "amount due %s", inv.AmountDue)
	s.Equal(types.InvoiceStatusPending, inv.InvoiceStatus)
	s.Require().NotNil(inv.AppliedCreditNoteID)
	s.Equal(cn.ID, *inv.AppliedCreditNoteID)
}

func (s *CreditNoteServiceSuite) TestApplyFullBalanceMarksInvoicePaid() {
	cn := s.createCreditNote(decimal.NewFromInt(100))

	_, err := s.service.ApplyCreditNote(s.GetContext(), cn.ID)
	s.Require().NoError(err)

	inv, err := s.invoiceService.GetInvoice(s.GetContext(), s.invoiceID)
	s.Require().NoError(err)
	s.True(inv.AmountDue.IsZero())
	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
}

func (s *CreditNoteServiceSuite) TestApplyTwiceRejected() {
	cn := s.createCreditNote(decimal.NewFromInt(30))

	_, err := s.service.ApplyCreditNote(s.GetContext(), cn.ID)
	s.Require().NoError(err)

	_, err = s.service.ApplyCreditNote(s.GetContext(), cn.ID)
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *CreditNoteServiceSuite) TestApplyAfterBalanceShrankRejected() {
	cn := s.createCreditNote(decimal.NewFromInt(100))

	// Another credit landed first and shrank the balance below the note.
	other := s.createCreditNote(decimal.NewFromInt(50))
	_, err := s.service.ApplyCreditNote(s.GetContext(), other.ID)
	s.Require().NoError(err)

	_, err = s.service.ApplyCreditNote(s.GetContext(), cn.ID)
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CreditNoteServiceSuite) TestVoidCreditNote() {
	cn := s.createCreditNote(decimal.NewFromInt(25))

	voided, err := s.service.VoidCreditNote(s.GetContext(), cn.ID, &dto.VoidCreditNoteRequest{
		Reason: "issued in error",
	})
	s.Require().NoError(err)
	s.Equal(types.CreditNoteStatusVoided, voided.CreditNoteStatus)
	s.Equal("issued in error", voided.VoidReason)

	// Voiding leaves the invoice balance untouched.
	inv, err := s.invoiceService.GetInvoice(s.GetContext(), s.invoiceID)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(100).Equal(inv.AmountDue))
}

func (s *CreditNoteServiceSuite) TestVoidAppliedRejected() {
	cn := s.createCreditNote(decimal.NewFromInt(25))

	_, err := s.service.ApplyCreditNote(s.GetContext(), cn.ID)
	s.Require().NoError(err)

	_, err = s.service.VoidCreditNote(s.GetContext(), cn.ID, &dto.VoidCreditNoteRequest{
		Reason: "changed my mind",
	})
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *CreditNoteServiceSuite) TestListCreditNotesByInvoice() {
	s.createCreditNote(decimal.NewFromInt(10))
	s.createCreditNote(decimal.NewFromInt(20))

	filter := types.NewCreditNoteFilter()
	filter.InvoiceID = s.invoiceID
	resp, err := s.service.ListCreditNotes(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(2, resp.Pagination.Total)
}
