package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/billflow/billflow/internal/api/dto"
	"github.com/billflow/billflow/internal/domain/invoice"
	"github.com/billflow/billflow/internal/domain/payment"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/integration/paypal"
	"github.com/billflow/billflow/internal/integration/stripe"
	"github.com/billflow/billflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// GatewayService bridges invoices to the payment gateways. Each started
// checkout is tracked as a pending payment carrying the gateway's order
// id, which the webhook handlers use to find it again.
type GatewayService interface {
	CreateStripePaymentIntent(ctx context.Context, req *dto.CreateStripePaymentIntentRequest) (*dto.StripePaymentIntentResponse, error)
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) (*dto.WebhookResultResponse, error)
	CreatePayPalOrder(ctx context.Context, req *dto.CreatePayPalOrderRequest) (*dto.PayPalOrderResponse, error)
	CapturePayPalOrder(ctx context.Context, req *dto.CapturePayPalOrderRequest) (*dto.PaymentResponse, error)
	HandlePayPalWebhook(ctx context.Context, payload []byte) (*dto.WebhookResultResponse, error)
}

type gatewayService struct {
	ServiceParams
	stripeClient stripe.StripeClient
	paypalClient paypal.PayPalClient
}

// NewGatewayService creates a new gateway service
func NewGatewayService(
	params ServiceParams,
	stripeClient stripe.StripeClient,
	paypalClient paypal.PayPalClient,
) GatewayService {
	return &gatewayService{
		ServiceParams: params,
		stripeClient:  stripeClient,
		paypalClient:  paypalClient,
	}
}

// payableInvoice fetches an invoice and checks it can accept a gateway
// checkout.
func (s *gatewayService) payableInvoice(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.InvoiceStatus != types.InvoiceStatusPending && inv.InvoiceStatus != types.InvoiceStatusOverdue {
		return nil, ierr.NewError("invoice is not payable").
			WithHint("Only pending or overdue invoices can be paid").
			WithReportableDetails(map[string]any{
				"invoice_id": invoiceID,
				"status":     inv.InvoiceStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	if !inv.Outstanding().IsPositive() {
		return nil, ierr.NewError("invoice has no outstanding balance").
			WithHint("The invoice is already settled").
			WithReportableDetails(map[string]any{"invoice_id": invoiceID}).
			Mark(ierr.ErrInvalidOperation)
	}
	return inv, nil
}

func (s *gatewayService) CreateStripePaymentIntent(ctx context.Context, req *dto.CreateStripePaymentIntentRequest) (*dto.StripePaymentIntentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.payableInvoice(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	amount := inv.Outstanding()
	// Stripe amounts are integers in the currency's smallest unit.
	minorUnits := amount.Shift(int32(types.GetCurrencyPrecision(inv.Currency))).IntPart()

	intent, err := s.stripeClient.CreatePaymentIntent(ctx, &stripe.CreatePaymentIntentRequest{
		Amount:      minorUnits,
		Currency:    inv.Currency,
		Description: fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
		Metadata: map[string]string{
			"invoice_id":     inv.ID,
			"invoice_number": inv.InvoiceNumber,
		},
	})
	if err != nil {
		return nil, err
	}

	pay := &payment.Payment{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		InvoiceID:      inv.ID,
		Amount:         amount,
		Currency:       inv.Currency,
		Method:         types.PaymentMethodStripe,
		Reference:      intent.ID,
		PaymentDate:    time.Now().UTC(),
		PaymentStatus:  types.PaymentStatusPending,
		GatewayOrderID: &intent.ID,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	if err := s.PaymentRepo.Create(ctx, pay); err != nil {
		return nil, err
	}

	s.Logger.Infow("started stripe checkout",
		"payment_id", pay.ID,
		"invoice_id", inv.ID,
		"payment_intent_id", intent.ID)
	return &dto.StripePaymentIntentResponse{
		PaymentID:       pay.ID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          amount,
		Currency:        inv.Currency,
		Status:          intent.Status,
	}, nil
}

func (s *gatewayService) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) (*dto.WebhookResultResponse, error) {
	if err := s.stripeClient.VerifyWebhookSignature(payload, signature, time.Now()); err != nil {
		return nil, err
	}

	event, err := s.stripeClient.ParseWebhookEvent(payload)
	if err != nil {
		return nil, err
	}

	switch event.Type {
	case stripe.EventPaymentIntentSucceeded:
		return s.completeGatewayPayment(ctx, event.Data.Object.ID, nil)
	case stripe.EventPaymentIntentFailed:
		reason := "Payment failed"
		if event.Data.Object.LastPaymentError != nil && event.Data.Object.LastPaymentError.Message != "" {
			reason = event.Data.Object.LastPaymentError.Message
		}
		return s.failGatewayPayment(ctx, event.Data.Object.ID, reason)
	default:
		s.Logger.Debugw("ignoring stripe webhook event", "event_type", event.Type)
		return &dto.WebhookResultResponse{Handled: false, Message: "event not handled"}, nil
	}
}

func (s *gatewayService) CreatePayPalOrder(ctx context.Context, req *dto.CreatePayPalOrderRequest) (*dto.PayPalOrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.payableInvoice(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	amount := inv.Outstanding()
	order, err := s.paypalClient.CreateOrder(ctx, &paypal.CreateOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypal.PurchaseUnit{{
			ReferenceID: inv.ID,
			Description: fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
			Amount: paypal.Amount{
				CurrencyCode: strings.ToUpper(inv.Currency),
				Value:        amount.StringFixed(int32(types.GetCurrencyPrecision(inv.Currency))),
			},
		}},
	})
	if err != nil {
		return nil, err
	}

	pay := &payment.Payment{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		InvoiceID:      inv.ID,
		Amount:         amount,
		Currency:       inv.Currency,
		Method:         types.PaymentMethodPayPal,
		Reference:      fmt.Sprintf("paypal_%s", order.ID),
		PaymentDate:    time.Now().UTC(),
		PaymentStatus:  types.PaymentStatusPending,
		GatewayOrderID: &order.ID,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	if err := s.PaymentRepo.Create(ctx, pay); err != nil {
		return nil, err
	}

	approveURL := ""
	if link, ok := lo.Find(order.Links, func(l paypal.Link) bool { return l.Rel == "approve" }); ok {
		approveURL = link.Href
	}

	s.Logger.Infow("started paypal checkout",
		"payment_id", pay.ID,
		"invoice_id", inv.ID,
		"order_id", order.ID)
	return &dto.PayPalOrderResponse{
		PaymentID:  pay.ID,
		OrderID:    order.ID,
		ApproveURL: approveURL,
		Amount:     amount,
		Currency:   inv.Currency,
		Status:     order.Status,
	}, nil
}

func (s *gatewayService) CapturePayPalOrder(ctx context.Context, req *dto.CapturePayPalOrderRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order, err := s.paypalClient.CaptureOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != paypal.OrderStatusCompleted {
		return nil, ierr.NewErrorf("paypal order not completed: %s", order.Status).
			WithHint("The PayPal order was not completed").
			WithReportableDetails(map[string]any{
				"order_id": order.ID,
				"status":   order.Status,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	var captureID *string
	if len(order.PurchaseUnits) > 0 && order.PurchaseUnits[0].Payments != nil {
		captures := order.PurchaseUnits[0].Payments.Captures
		if len(captures) > 0 {
			captureID = &captures[0].ID
		}
	}

	result, err := s.completeGatewayPayment(ctx, order.ID, captureID)
	if err != nil {
		return nil, err
	}
	if !result.Handled {
		return nil, ierr.NewError("no payment found for paypal order").
			WithHint("No payment is tracked for this PayPal order").
			WithReportableDetails(map[string]any{"order_id": order.ID}).
			Mark(ierr.ErrNotFound)
	}

	pay, err := s.PaymentRepo.GetByGatewayOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &dto.PaymentResponse{Payment: pay}, nil
}

func (s *gatewayService) HandlePayPalWebhook(ctx context.Context, payload []byte) (*dto.WebhookResultResponse, error) {
	event, err := s.paypalClient.ParseWebhookEvent(payload)
	if err != nil {
		return nil, err
	}

	orderID := event.Resource.SupplementaryData.RelatedIDs.OrderID
	switch event.EventType {
	case paypal.EventCaptureCompleted:
		return s.completeGatewayPayment(ctx, orderID, &event.Resource.ID)
	case paypal.EventCaptureDenied, paypal.EventCaptureDeclined:
		reason := event.Resource.ReasonCode
		if reason == "" {
			reason = "Payment declined"
		}
		return s.failGatewayPayment(ctx, orderID, reason)
	default:
		s.Logger.Debugw("ignoring paypal webhook event", "event_type", event.EventType)
		return &dto.WebhookResultResponse{Handled: false, Message: "event not handled"}, nil
	}
}

// completeGatewayPayment marks the tracked payment completed and settles
// its invoice. Already completed payments are acknowledged idempotently.
func (s *gatewayService) completeGatewayPayment(ctx context.Context, gatewayOrderID string, captureID *string) (*dto.WebhookResultResponse, error) {
	if gatewayOrderID == "" {
		return &dto.WebhookResultResponse{Handled: false, Message: "no order id in event"}, nil
	}

	pay, err := s.PaymentRepo.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("gateway webhook for unknown payment", "gateway_order_id", gatewayOrderID)
			return &dto.WebhookResultResponse{Handled: false, Message: "payment not found"}, nil
		}
		return nil, err
	}

	if pay.PaymentStatus == types.PaymentStatusCompleted {
		return &dto.WebhookResultResponse{Handled: true, Message: "payment already confirmed"}, nil
	}

	pay.PaymentStatus = types.PaymentStatusCompleted
	pay.GatewayCaptureID = captureID
	pay.PaymentDate = time.Now().UTC()
	pay.Touch(ctx)
	if err := s.PaymentRepo.Update(ctx, pay); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, pay.InvoiceID)
	if err != nil {
		return nil, err
	}

	remaining := inv.Outstanding().Sub(pay.Amount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	inv.AmountDue = types.RoundToCurrency(remaining, inv.Currency)
	if inv.AmountDue.IsZero() {
		inv.InvoiceStatus = types.InvoiceStatusPaid
	}
	inv.Touch(ctx)
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("confirmed gateway payment",
		"payment_id", pay.ID,
		"gateway_order_id", gatewayOrderID,
		"invoice_id", inv.ID,
		"invoice_status", inv.InvoiceStatus)
	return &dto.WebhookResultResponse{Handled: true, Message: "payment confirmed"}, nil
}

// failGatewayPayment records a declined checkout without touching the
// invoice balance.
func (s *gatewayService) failGatewayPayment(ctx context.Context, gatewayOrderID, reason string) (*dto.WebhookResultResponse, error) {
	if gatewayOrderID == "" {
		return &dto.WebhookResultResponse{Handled: false, Message: "no order id in event"}, nil
	}

	pay, err := s.PaymentRepo.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("gateway webhook for unknown payment", "gateway_order_id", gatewayOrderID)
			return &dto.WebhookResultResponse{Handled: false, Message: "payment not found"}, nil
		}
		return nil, err
	}

	pay.PaymentStatus = types.PaymentStatusFailed
	pay.FailureReason = reason
	pay.Touch(ctx)
	if err := s.PaymentRepo.Update(ctx, pay); err != nil {
		return nil, err
	}

	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("recorded gateway payment failure",
		"payment_id", pay.ID,
		"gateway_order_id", gatewayOrderID,
		"reason", reason)
	return &dto.WebhookResultResponse{Handled: true, Message: "payment failure recorded"}, nil
}
