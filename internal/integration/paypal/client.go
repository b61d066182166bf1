package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/billflow/billflow/internal/config"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/logger"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	LiveBaseURL    = "https://api-m.paypal.com"
)

// tokenSkew refreshes the OAuth token slightly before it expires.
const tokenSkew = 60 * time.Second

// PayPalClient defines the interface for PayPal API operations
type PayPalClient interface {
	Enabled() bool
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*Order, error)
	ParseWebhookEvent(payload []byte) (*WebhookEvent, error)
}

// Client handles PayPal API client setup and configuration
type Client struct {
	config     config.PayPalConfig
	logger     *logger.Logger
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new PayPal client
func NewClient(cfg config.PayPalConfig, log *logger.Logger) PayPalClient {
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
	return c.config.Enabled && c.config.ClientID != "" && c.config.ClientSecret != ""
}

func (c *Client) requireEnabled() error {
	if !c.Enabled() {
		return ierr.NewError("paypal is not configured").
			WithHint("Configure the PayPal client credentials to enable PayPal payments").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (c *Client) baseURL() string {
	if c.config.Environment == "live" {
		return LiveBaseURL
	}
	return SandboxBaseURL
}

// getAccessToken returns a cached OAuth token, fetching a new one via the
// client-credentials grant when needed.
func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL()+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", ierr.NewError("failed to create HTTP request").Mark(ierr.ErrInternal)
	}
	httpReq.SetBasicAuth(c.config.ClientID, c.config.ClientSecret)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Errorw("paypal token request failed", "error", err)
		return "", ierr.WithError(err).
			WithHint("Unable to reach the PayPal API").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", ierr.NewError("failed to read PayPal response").Mark(ierr.ErrHTTPClient)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Errorw("paypal token request rejected", "status", resp.StatusCode)
		return "", ierr.NewError("paypal authentication failed").
			WithHint("Check the PayPal client credentials").
			Mark(ierr.ErrPermissionDenied)
	}

	var token tokenResponse
	if err := json.Unmarshal(respBody, &token); err != nil || token.AccessToken == "" {
		return "", ierr.NewError("failed to parse PayPal token response").Mark(ierr.ErrHTTPClient)
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenSkew)
	return c.accessToken, nil
}

// CreateOrder creates a checkout order in PayPal
func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	if err := c.requireEnabled(); err != nil {
		return nil, err
	}
	if req.Intent == "" {
		req.Intent = "CAPTURE"
	}

	var order Order
	if err := c.do(ctx, http.MethodPost, "/v2/checkout/orders", req, &order); err != nil {
		return nil, err
	}

	c.logger.Infow("created paypal order", "order_id", order.ID, "status", order.Status)
	return &order, nil
}

// GetOrder fetches a checkout order from PayPal
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if err := c.requireEnabled(); err != nil {
		return nil, err
	}

	var order Order
	if err := c.do(ctx, http.MethodGet, "/v2/checkout/orders/"+orderID, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CaptureOrder captures an approved order
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*Order, error) {
	if err := c.requireEnabled(); err != nil {
		return nil, err
	}

	var order Order
	if err := c.do(ctx, http.MethodPost, "/v2/checkout/orders/"+orderID+"/capture", nil, &order); err != nil {
		return nil, err
	}

	c.logger.Infow("captured paypal order", "order_id", order.ID, "status", order.Status)
	return &order, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		bodyBytes, err := json.Marshal(in)
		if err != nil {
			return ierr.NewError("failed to marshal PayPal request").Mark(ierr.ErrInternal)
		}
		body = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL()+path, body)
	if err != nil {
		return ierr.NewError("failed to create HTTP request").Mark(ierr.ErrInternal)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Errorw("paypal request failed", "method", method, "path", path, "error", err)
		return ierr.WithError(err).
			WithHint("Unable to reach the PayPal API").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ierr.NewError("failed to read PayPal response").Mark(ierr.ErrHTTPClient)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			c.logger.Errorw("paypal API error",
				"status", resp.StatusCode,
				"name", errResp.Name,
				"message", errResp.Message)
			return ierr.NewError(errResp.Message).
				WithHint("PayPal rejected the request").
				WithReportableDetails(map[string]any{"name": errResp.Name}).
				Mark(ierr.ErrHTTPClient)
		}
		return ierr.NewErrorf("paypal API error: HTTP %d", resp.StatusCode).
			WithHint("PayPal rejected the request").
			Mark(ierr.ErrHTTPClient)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return ierr.NewError("failed to parse PayPal response").Mark(ierr.ErrHTTPClient)
		}
	}
	return nil
}

// ParseWebhookEvent decodes a webhook payload
func (c *Client) ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Webhook payload is not valid JSON").
			Mark(ierr.ErrValidation)
	}
	if event.EventType == "" {
		return nil, ierr.NewError("webhook event has no type").
			WithHint("Webhook payload is malformed").
			Mark(ierr.ErrValidation)
	}
	return &event, nil
}
