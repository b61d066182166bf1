package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/billflow/billflow/internal/config"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/logger"
	"github.com/hashicorp/go-retryablehttp"
)

const BaseURL = "https://api.stripe.com/v1"

// webhookTolerance bounds how old a signed webhook timestamp may be.
const webhookTolerance = 5 * time.Minute

// StripeClient defines the interface for Stripe API operations
type StripeClient interface {
	Enabled() bool
	CreatePaymentIntent(ctx context.Context, req *CreatePaymentIntentRequest) (*PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)
	VerifyWebhookSignature(payload []byte, header string, now time.Time) error
	ParseWebhookEvent(payload []byte) (*WebhookEvent, error)
}

// Client handles Stripe API client setup and configuration
type Client struct {
	config     config.StripeConfig
	logger     *logger.Logger
	httpClient *http.Client
}

// NewClient creates a new Stripe client
func NewClient(cfg config.StripeConfig, log *logger.Logger) StripeClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.HTTPClient.Timeout = 30 * time.Second
	retryClient.Logger = log.GetRetryableHTTPLogger()

	return &Client{
		config:     cfg,
		logger:     log,
		httpClient: retryClient.StandardClient(),
	}
}

// Enabled reports whether the integration is configured for use.
func (c *Client) Enabled() bool {
	return c.config.Enabled && c.config.SecretKey != ""
}

func (c *Client) requireEnabled() error {
	if !c.Enabled() {
		return ierr.NewError("stripe is not configured").
			WithHint("Configure the Stripe secret key to enable card payments").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CreatePaymentIntent creates a payment intent in Stripe
func (c *Client) CreatePaymentIntent(ctx context.Context, req *CreatePaymentIntentRequest) (*PaymentIntent, error) {
	if err := c.requireEnabled(); err != nil {
		return nil, err
	}

	// Stripe's v1 API takes form-encoded bodies.
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.Amount, 10))
	form.Set("currency", req.Currency)
	if req.Description != "" {
		form.Set("description", req.Description)
	}
	for k, v := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var intent PaymentIntent
	if err := c.do(ctx, http.MethodPost, "/payment_intents", form, &intent); err != nil {
		return nil, err
	}

	c.logger.Infow("created stripe payment intent",
		"payment_intent_id", intent.ID,
		"amount", intent.Amount,
		"currency", intent.Currency,
		"status", intent.Status)
	return &intent, nil
}

// GetPaymentIntent fetches a payment intent from Stripe
func (c *Client) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	if err := c.requireEnabled(); err != nil {
		return nil, err
	}

	var intent PaymentIntent
	if err := c.do(ctx, http.MethodGet, "/payment_intents/"+id, nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CancelPaymentIntent cancels a payment intent in Stripe
func (c *Client) CancelPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	if err := c.requireEnabled(); err != nil {
		return nil, err
	}

	var intent PaymentIntent
	if err := c.do(ctx, http.MethodPost, "/payment_intents/"+id+"/cancel", nil, &intent); err != nil {
		return nil, err
	}

	c.logger.Infow("cancelled stripe payment intent", "payment_intent_id", intent.ID)
	return &intent, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, BaseURL+path, body)
	if err != nil {
		return ierr.NewError("failed to create HTTP request").Mark(ierr.ErrInternal)
	}

	httpReq.SetBasicAuth(c.config.SecretKey, "")
	if form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Errorw("stripe request failed", "method", method, "path", path, "error", err)
		return ierr.WithError(err).
			WithHint("Unable to reach the Stripe API").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ierr.NewError("failed to read Stripe response").Mark(ierr.ErrHTTPClient)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			c.logger.Errorw("stripe API error",
				"status", resp.StatusCode,
				"type", errResp.Error.Type,
				"code", errResp.Error.Code,
				"message", errResp.Error.Message)
			return ierr.NewError(errResp.Error.Message).
				WithHint("Stripe rejected the request").
				WithReportableDetails(map[string]any{
					"type": errResp.Error.Type,
					"code": errResp.Error.Code,
				}).
				Mark(ierr.ErrHTTPClient)
		}
		return ierr.NewErrorf("stripe API error: HTTP %d", resp.StatusCode).
			WithHint("Stripe rejected the request").
			Mark(ierr.ErrHTTPClient)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return ierr.NewError("failed to parse Stripe response").Mark(ierr.ErrHTTPClient)
	}
	return nil
}

// VerifyWebhookSignature checks the Stripe-Signature header against the
// webhook secret. The header carries a timestamp and one or more v1
// signatures over "<timestamp>.<payload>".
func (c *Client) VerifyWebhookSignature(payload []byte, header string, now time.Time) error {
	if c.config.WebhookSecret == "" {
		return ierr.NewError("stripe webhook secret is not configured").
			WithHint("Configure the Stripe webhook secret to accept webhooks").
			Mark(ierr.ErrValidation)
	}
	if header == "" {
		return ierr.NewError("missing webhook signature").
			WithHint("Stripe-Signature header is required").
			Mark(ierr.ErrPermissionDenied)
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return ierr.NewError("malformed webhook signature header").
			WithHint("Stripe-Signature header is malformed").
			Mark(ierr.ErrPermissionDenied)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ierr.NewError("malformed webhook signature timestamp").
			WithHint("Stripe-Signature header is malformed").
			Mark(ierr.ErrPermissionDenied)
	}
	if now.Sub(time.Unix(ts, 0)).Abs() > webhookTolerance {
		return ierr.NewError("webhook timestamp outside tolerance").
			WithHint("The webhook is too old to accept").
			Mark(ierr.ErrPermissionDenied)
	}

	mac := hmac.New(sha256.New, []byte(c.config.WebhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return ierr.NewError("webhook signature mismatch").
		WithHint("The webhook signature does not match the configured secret").
		Mark(ierr.ErrPermissionDenied)
}

// ParseWebhookEvent decodes a webhook payload
func (c *Client) ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Webhook payload is not valid JSON").
			Mark(ierr.ErrValidation)
	}
	if event.Type == "" {
		return nil, ierr.NewError("webhook event has no type").
			WithHint("Webhook payload is malformed").
			Mark(ierr.ErrValidation)
	}
	return &event, nil
}
