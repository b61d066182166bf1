package paypal

// CreateOrderRequest is the order create payload for the v2 checkout API.
type CreateOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
}

// PurchaseUnit is one purchase unit of an order.
type PurchaseUnit struct {
	ReferenceID string    `json:"reference_id,omitempty"`
	Description string    `json:"description,omitempty"`
	Amount      Amount    `json:"amount"`
	Payments    *Captures `json:"payments,omitempty"`
}

// Amount is a PayPal money value. Value is a decimal string.
type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// Order is a checkout order as returned by the API.
type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units,omitempty"`
	Links         []Link         `json:"links,omitempty"`
}

// Link is one HATEOAS link on an order.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// Captures holds the capture results of a purchase unit.
type Captures struct {
	Captures []Capture `json:"captures,omitempty"`
}

// Capture is one completed or attempted capture.
type Capture struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Amount       Amount `json:"amount"`
	FinalCapture bool   `json:"final_capture"`
}

// Order and capture statuses the billing flow reacts to.
const (
	OrderStatusCreated   = "CREATED"
	OrderStatusApproved  = "APPROVED"
	OrderStatusCompleted = "COMPLETED"

	CaptureStatusCompleted = "COMPLETED"
	CaptureStatusDeclined  = "DECLINED"
)

// WebhookEvent is the envelope PayPal posts to the webhook endpoint.
type WebhookEvent struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Resource  WebhookResource `json:"resource"`
}

// WebhookResource is the capture resource inside a webhook event.
type WebhookResource struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	ReasonCode        string `json:"reason_code,omitempty"`
	Amount            Amount `json:"amount"`
	SupplementaryData struct {
		RelatedIDs struct {
			OrderID string `json:"order_id"`
		} `json:"related_ids"`
	} `json:"supplementary_data"`
}

// Webhook event types the billing flow handles.
const (
	EventCaptureCompleted = "PAYMENT.CAPTURE.COMPLETED"
	EventCaptureDenied    = "PAYMENT.CAPTURE.DENIED"
	EventCaptureDeclined  = "PAYMENT.CAPTURE.DECLINED"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ErrorResponse is the envelope of a non-2xx PayPal response.
type ErrorResponse struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message,omitempty"`
	Details []struct {
		Issue       string `json:"issue,omitempty"`
		Description string `json:"description,omitempty"`
	} `json:"details,omitempty"`
}
