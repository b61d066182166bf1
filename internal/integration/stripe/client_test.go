package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/billflow/billflow/internal/config"
	"github.com/billflow/billflow/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

func testClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(config.StripeConfig{
		Enabled:       true,
		SecretKey:     "sk_test_123",
		WebhookSecret: testWebhookSecret,
		Currency:      "usd",
	}, logger.GetLogger())
	return c.(*Client)
}

func signPayload(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := testClient(t)
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Now().UTC()
	ts := now.Unix()

	t.Run("valid_signature", func(t *testing.T) {
		header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload(testWebhookSecret, ts, payload))
		assert.NoError(t, client.VerifyWebhookSignature(payload, header, now))
	})

	t.Run("multiple_signatures_one_valid", func(t *testing.T) {
		header := fmt.Sprintf("t=%d,v1=%s,v1=%s", ts, "deadbeef", signPayload(testWebhookSecret, ts, payload))
		assert.NoError(t, client.VerifyWebhookSignature(payload, header, now))
	})

	t.Run("wrong_secret", func(t *testing.T) {
		header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_other", ts, payload))
		assert.Error(t, client.VerifyWebhookSignature(payload, header, now))
	})

	t.Run("tampered_payload", func(t *testing.T) {
		header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload(testWebhookSecret, ts, payload))
		tampered := []byte(`{"id":"evt_2","type":"payment_intent.succeeded"}`)
		assert.Error(t, client.VerifyWebhookSignature(tampered, header, now))
	})

	t.Run("stale_timestamp", func(t *testing.T) {
		old := ts - int64((10 * time.Minute).Seconds())
		header := fmt.Sprintf("t=%d,v1=%s", old, signPayload(testWebhookSecret, old, payload))
		assert.Error(t, client.VerifyWebhookSignature(payload, header, now))
	})

	t.Run("missing_header", func(t *testing.T) {
		assert.Error(t, client.VerifyWebhookSignature(payload, "", now))
	})

	t.Run("malformed_header", func(t *testing.T) {
		assert.Error(t, client.VerifyWebhookSignature(payload, "not-a-signature", now))
	})
}

func TestParseWebhookEvent(t *testing.T) {
	client := testClient(t)

	t.Run("payment_intent_succeeded", func(t *testing.T) {
		payload := []byte(`{
			"id": "evt_1",
			"type": "payment_intent.succeeded",
			"data": {
				"object": {
					"id": "pi_123",
					"amount": 2750,
					"currency": "usd",
					"status": "succeeded",
					"metadata": {"invoice_id": "inv_1"}
				}
			}
		}`)
		event, err := client.ParseWebhookEvent(payload)
		require.NoError(t, err)
		assert.Equal(t, EventPaymentIntentSucceeded, event.Type)
		assert.Equal(t, "pi_123", event.Data.Object.ID)
		assert.Equal(t, int64(2750), event.Data.Object.Amount)
		assert.Equal(t, "inv_1", event.Data.Object.Metadata["invoice_id"])
	})

	t.Run("missing_type_rejected", func(t *testing.T) {
		_, err := client.ParseWebhookEvent([]byte(`{"id":"evt_1"}`))
		assert.Error(t, err)
	})

	t.Run("invalid_json_rejected", func(t *testing.T) {
		_, err := client.ParseWebhookEvent([]byte(`{`))
		assert.Error(t, err)
	})
}
