package stripe

// CreatePaymentIntentRequest is the subset of the payment intent create
// parameters the billing flow uses. Amount is in the currency's smallest
// unit, as the Stripe API expects.
type CreatePaymentIntentRequest struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// PaymentIntent is a Stripe payment intent as returned by the API.
type PaymentIntent struct {
	ID               string            `json:"id"`
	Amount           int64             `json:"amount"`
	Currency         string            `json:"currency"`
	Status           string            `json:"status"`
	ClientSecret     string            `json:"client_secret,omitempty"`
	Description      string            `json:"description,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	LastPaymentError *APIError         `json:"last_payment_error,omitempty"`
}

// Payment intent statuses the billing flow reacts to.
const (
	PaymentIntentStatusSucceeded             = "succeeded"
	PaymentIntentStatusCanceled              = "canceled"
	PaymentIntentStatusRequiresPaymentMethod = "requires_payment_method"
)

// WebhookEvent is the envelope Stripe posts to the webhook endpoint.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object PaymentIntent `json:"object"`
	} `json:"data"`
}

// Webhook event types the billing flow handles.
const (
	EventPaymentIntentSucceeded = "payment_intent.succeeded"
	EventPaymentIntentFailed    = "payment_intent.payment_failed"
)

// APIError is the error object embedded in Stripe error responses.
type APIError struct {
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the envelope of a non-2xx Stripe response.
type ErrorResponse struct {
	Error APIError `json:"error"`
}
