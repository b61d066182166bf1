package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/billflow/billflow/internal/api/dto"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/integration/paypal"
	"github.com/billflow/billflow/internal/integration/stripe"
	"github.com/billflow/billflow/internal/testutil"
	"github.com/billflow/billflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// fakeStripeClient records created intents and plays back webhook events
// without touching the network.
type fakeStripeClient struct {
	intents      map[string]*stripe.PaymentIntent
	nextID       int
	signatureErr error
}

func newFakeStripeClient() *fakeStripeClient {
	return &fakeStripeClient{intents: make(map[string]*stripe.PaymentIntent)}
}

func (f *fakeStripeClient) Enabled() bool { return true }

func (f *fakeStripeClient) CreatePaymentIntent(_ context.Context, req *stripe.CreatePaymentIntentRequest) (*stripe.PaymentIntent, error) {
	f.nextID++
	intent := &stripe.PaymentIntent{
		ID:           fmt.Sprintf("pi_fake_%d", f.nextID),
		Amount:       req.Amount,
		Currency:     req.Currency,
		Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
		ClientSecret: fmt.Sprintf("pi_fake_%d_secret", f.nextID),
		Metadata:     req.Metadata,
	}
	f.intents[intent.ID] = intent
	return intent, nil
}

func (f *fakeStripeClient) GetPaymentIntent(_ context.Context, id string) (*stripe.PaymentIntent, error) {
	intent, ok := f.intents[id]
	if !ok {
		return nil, ierr.NewErrorf("payment intent %s not found", id).Mark(ierr.ErrNotFound)
	}
	return intent, nil
}

func (f *fakeStripeClient) CancelPaymentIntent(_ context.Context, id string) (*stripe.PaymentIntent, error) {
	return f.GetPaymentIntent(context.Background(), id)
}

func (f *fakeStripeClient) VerifyWebhookSignature(_ []byte, _ string, _ time.Time) error {
	return f.signatureErr
}

func (f *fakeStripeClient) ParseWebhookEvent(payload []byte) (*stripe.WebhookEvent, error) {
	return (&stripe.Client{}).ParseWebhookEvent(payload)
}

// fakePayPalClient mirrors the order lifecycle in memory.
type fakePayPalClient struct {
	orders map[string]*paypal.Order
	nextID int
}

func newFakePayPalClient() *fakePayPalClient {
	return &fakePayPalClient{orders: make(map[string]*paypal.Order)}
}

func (f *fakePayPalClient) Enabled() bool { return true }

func (f *fakePayPalClient) CreateOrder(_ context.Context, req *paypal.CreateOrderRequest) (*paypal.Order, error) {
	f.nextID++
	order := &paypal.Order{
		ID:            fmt.Sprintf("ORD-FAKE-%d", f.nextID),
		Status:        paypal.OrderStatusCreated,
		PurchaseUnits: req.PurchaseUnits,
		Links: []paypal.Link{
			{Href: "https://www.sandbox.paypal.com/checkoutnow?token=FAKE", Rel: "approve", Method: "GET"},
		},
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakePayPalClient) GetOrder(_ context.Context, id string) (*paypal.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, ierr.NewErrorf("order %s not found", id).Mark(ierr.ErrNotFound)
	}
	return order, nil
}

func (f *fakePayPalClient) CaptureOrder(_ context.Context, id string) (*paypal.Order, error) {
	order, err := f.GetOrder(context.Background(), id)
	if err != nil {
		return nil, err
	}
	order.Status = paypal.OrderStatusCompleted
	if len(order.PurchaseUnits) > 0 {
		order.PurchaseUnits[0].Payments = &paypal.Captures{
			Captures: []paypal.Capture{{
				ID:           fmt.Sprintf("CAP-FAKE-%d", f.nextID),
				Status:       paypal.CaptureStatusCompleted,
				Amount:       order.PurchaseUnits[0].Amount,
				FinalCapture: true,
			}},
		}
	}
	return order, nil
}

func (f *fakePayPalClient) ParseWebhookEvent(payload []byte) (*paypal.WebhookEvent, error) {
	return (&paypal.Client{}).ParseWebhookEvent(payload)
}

type GatewayServiceSuite struct {
	testutil.BaseServiceTestSuite
	service         GatewayService
	invoiceService  InvoiceService
	customerService CustomerService
	paymentService  PaymentService
	stripeClient    *fakeStripeClient
	paypalClient    *fakePayPalClient
	params          ServiceParams
	invoiceID       string
}

func TestGatewayService(t *testing.T) {
	suite.Run(t, new(GatewayServiceSuite))
}

func (s *GatewayServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = NewServiceParams(s.GetLogger(), s.GetConfig(), s.GetCache(), s.GetStores())
	s.stripeClient = newFakeStripeClient()
	s.paypalClient = newFakePayPalClient()
	s.service = NewGatewayService(s.params, s.stripeClient, s.paypalClient)
	s.invoiceService = NewInvoiceService(s.params)
	s.customerService = NewCustomerService(s.params)
	s.paymentService = NewPaymentService(s.params)

	cust, err := s.customerService.CreateCustomer(s.GetContext(), &dto.CreateCustomerRequest{
		Name:  "Acme Corp",
		Email: "billing@acme.test",
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
	_, err = s.invoiceService.FinalizeInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.invoiceID = inv.ID
}

func (s *GatewayServiceSuite) TestCreateStripePaymentIntent() {
	resp, err := s.service.CreateStripePaymentIntent(s.GetContext(), &dto.CreateStripePaymentIntentRequest{
		InvoiceID: s.invoiceID,
	})
	s.Require().NoError(err)

	s.NotEmpty(resp.PaymentIntentID)
	s.NotEmpty(resp.ClientSecret)
	s.True(decimal.NewFromFloat(27.5).Equal(resp.Amount))

	// The intent amount is in cents.
	intent := s.stripeClient.intents[resp.PaymentIntentID]
	s.Require().NotNil(intent)
	s.Equal(int64(2750), intent.Amount)
	s.Equal(s.invoiceID, intent.Metadata["invoice_id"])

	// A pending payment tracks the checkout.
	pay, err := s.params.PaymentRepo.Get(s.GetContext(), resp.PaymentID)
	s.Require().NoError(err)
	s.Equal(types.PaymentStatusPending, pay.PaymentStatus)
	s.Equal(types.PaymentMethodStripe, pay.Method)
	s.Require().NotNil(pay.GatewayOrderID)
	s.Equal(resp.PaymentIntentID, *pay.GatewayOrderID)
}

func (s *GatewayServiceSuite) TestCreateStripeIntentDraftInvoiceRejected() {
	cust, err := s.customerService.CreateCustomer(s.GetContext(), &dto.CreateCustomerRequest{
		Name:  "Globex Inc",
		Email: "ap@globex.test",
	})
	s.Require().NoError(err)
	draft, err := s.invoiceService.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		CustomerID: cust.ID,
		LineItems: []dto.LineItemRequest{
			{ProductID: "prod_test_1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
		DueDate: time.Now().UTC(),
	})
	s.Require().NoError(err)

	_, err = s.service.CreateStripePaymentIntent(s.GetContext(), &dto.CreateStripePaymentIntentRequest{
		InvoiceID: draft.ID,
	})
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *GatewayServiceSuite) TestStripeWebhookSucceededSettlesInvoice() {
	resp, err := s.service.CreateStripePaymentIntent(s.GetContext(), &dto.CreateStripePaymentIntentRequest{
		InvoiceID: s.invoiceID,
	})
	s.Require().NoError(err)

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": %q, "amount": 2750, "currency": "usd", "status": "succeeded"}}
	}`, resp.PaymentIntentID))

	result, err := s.service.HandleStripeWebhook(s.GetContext(), payload, "sig")
	s.Require().NoError(err)
	s.True(result.Handled)

	inv, err := s.invoiceService.GetInvoice(s.GetContext(), s.invoiceID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
	s.True(inv.AmountDue.IsZero())

	pay, err := s.params.PaymentRepo.Get(s.GetContext(), resp.PaymentID)
	s.Require().NoError(err)
	s.Equal(types.PaymentStatusCompleted, pay.PaymentStatus)

	// Replays acknowledge without double settling.
	again, err := s.service.HandleStripeWebhook(s.GetContext(), payload, "sig")
	s.Require().NoError(err)
	s.True(again.Handled)
	s.Equal("payment already confirmed", again.Message)
}

func (s *GatewayServiceSuite) TestStripeWebhookFailedRecordsReason() {
	resp, err := s.service.CreateStripePaymentIntent(s.GetContext(), &dto.CreateStripePaymentIntentRequest{
		InvoiceID: s.invoiceID,
	})
	s.Require().NoError(err)

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_2",
		"type": "payment_intent.payment_failed",
		"data": {"object": {"id": %q, "status": "requires_payment_method", "last_payment_error": {"message": "Your card was declined."}}}
	}`, resp.PaymentIntentID))

	result, err := s.service.HandleStripeWebhook(s.GetContext(), payload, "sig")
	s.Require().NoError(err)
	s.True(result.Handled)

	pay, err := s.params.PaymentRepo.Get(s.GetContext(), resp.PaymentID)
	s.Require().NoError(err)
	s.Equal(types.PaymentStatusFailed, pay.PaymentStatus)
	s.Equal("Your card was declined.", pay.FailureReason)

	// The invoice balance is untouched.
	inv, err := s.invoiceService.GetInvoice(s.GetContext(), s.invoiceID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPending, inv.InvoiceStatus)
}

func (s *GatewayServiceSuite) TestStripeWebhookBadSignatureRejected() {
	s.stripeClient.signatureErr = ierr.NewError("webhook signature mismatch").Mark(ierr.ErrPermissionDenied)

	_, err := s.service.HandleStripeWebhook(s.GetContext(), []byte(`{}`), "bad")
	s.Require().Error(err)
}

func (s *GatewayServiceSuite) TestStripeWebhookUnknownIntentIgnored() {
	payload := []byte(`{
		"id": "evt_3",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_unknown", "status": "succeeded"}}
	}`)

	result, err := s.service.HandleStripeWebhook(s.GetContext(), payload, "sig")
	s.Require().NoError(err)
	s.False(result.Handled)
}

func (s *GatewayServiceSuite) TestCreateAndCapturePayPalOrder() {
	created, err := s.service.CreatePayPalOrder(s.GetContext(), &dto.CreatePayPalOrderRequest{
		InvoiceID: s.invoiceID,
	})
	s.Require().NoError(err)
	s.Equal(paypal.OrderStatusCreated, created.Status)
	s.NotEmpty(created.ApproveURL)

	captured, err := s.service.CapturePayPalOrder(s.GetContext(), &dto.CapturePayPalOrderRequest{
		OrderID: created.OrderID,
	})
	s.Require().NoError(err)
	s.Equal(types.PaymentStatusCompleted, captured.PaymentStatus)
	s.Require().NotNil(captured.GatewayCaptureID)

	inv, err := s.invoiceService.GetInvoice(s.GetContext(), s.invoiceID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
}

func (s *GatewayServiceSuite) TestPayPalOrderUsesInvoiceCurrency() {
	cust, err := s.customerService.CreateCustomer(s.GetContext(), &dto.CreateCustomerRequest{
		Name:  "Initech GmbH",
		Email: "rechnung@initech.test",
	})
	s.Require().NoError(err)

	inv, err := s.invoiceService.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		CustomerID: cust.ID,
		Currency:   "eur",
		LineItems: []dto.LineItemRequest{
			{ProductID: "prod_test_1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(80)},
		},
		TaxRate: decimal.Zero,
		DueDate: time.Now().UTC().Add(14 * 24 * time.Hour),
	})
	s.Require().NoError(err)
	_, err = s.invoiceService.FinalizeInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)

	created, err := s.service.CreatePayPalOrder(s.GetContext(), &dto.CreatePayPalOrderRequest{
		InvoiceID: inv.ID,
	})
	s.Require().NoError(err)

	order := s.paypalClient.orders[created.OrderID]
	s.Require().NotNil(order)
	s.Require().Len(order.PurchaseUnits, 1)
	s.Equal("EUR", order.PurchaseUnits[0].Amount.CurrencyCode)
	s.Equal("80.00", order.PurchaseUnits[0].Amount.Value)
}

func (s *GatewayServiceSuite) TestPayPalWebhookCaptureCompleted() {
	created, err := s.service.CreatePayPalOrder(s.GetContext(), &dto.CreatePayPalOrderRequest{
		InvoiceID: s.invoiceID,
	})
	s.Require().NoError(err)

	payload := []byte(fmt.Sprintf(`{
		"id": "WH-1",
		"event_type": "PAYMENT.CAPTURE.COMPLETED",
		"resource": {
			"id": "CAP-1",
			"status": "COMPLETED",
			"supplementary_data": {"related_ids": {"order_id": %q}}
		}
	}`, created.OrderID))

	result, err := s.service.HandlePayPalWebhook(s.GetContext(), payload)
	s.Require().NoError(err)
	s.True(result.Handled)

	inv, err := s.invoiceService.GetInvoice(s.GetContext(), s.invoiceID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
}

func (s *GatewayServiceSuite) TestPayPalWebhookCaptureDenied() {
	created, err := s.service.CreatePayPalOrder(s.GetContext(), &dto.CreatePayPalOrderRequest{
		InvoiceID: s.invoiceID,
	})
	s.Require().NoError(err)

	payload := []byte(fmt.Sprintf(`{
		"id": "WH-2",
		"event_type": "PAYMENT.CAPTURE.DENIED",
		"resource": {
			"id": "CAP-2",
			"status": "DECLINED",
			"reason_code": "TRANSACTION_REFUSED",
			"supplementary_data": {"related_ids": {"order_id": %q}}
		}
	}`, created.OrderID))

	result, err := s.service.HandlePayPalWebhook(s.GetContext(), payload)
	s.Require().NoError(err)
	s.True(result.Handled)

	pay, err := s.params.PaymentRepo.GetByGatewayOrderID(s.GetContext(), created.OrderID)
	s.Require().NoError(err)
	s.Equal(types.PaymentStatusFailed, pay.PaymentStatus)
	s.Equal("TRANSACTION_REFUSED", pay.FailureReason)
}

func (s *GatewayServiceSuite) TestPaidInvoiceRejectsNewCheckout() {
	_, err := s.paymentService.CreatePayment(s.GetContext(), &dto.CreatePaymentRequest{
		InvoiceID: s.invoiceID,
		Amount:    decimal.NewFromFloat(27.5),
		Method:    types.PaymentMethodCreditCard,
	})
	s.Require().NoError(err)

	_, err = s.service.CreateStripePaymentIntent(s.GetContext(), &dto.CreateStripePaymentIntentRequest{
		InvoiceID: s.invoiceID,
	})
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
}
