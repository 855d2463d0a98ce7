package gateways

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

const testWebhookSecret = "whsec_test_secret"

func signedStripePayload(t *testing.T, payload string, secret string) string {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Header
}

func TestStripeParseWebhookSucceeded(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	payload := `{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","object":"payment_intent","metadata":{"orderId":"order-1"}}}}`

	ev, err := g.ParseWebhook([]byte(payload), signedStripePayload(t, payload, testWebhookSecret))
	require.NoError(t, err)

	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, ProviderStripe, ev.Provider)
	assert.Equal(t, PaymentSucceeded, ev.Outcome)
	assert.Equal(t, "pi_1", ev.PaymentID)
	assert.Equal(t, "order-1", ev.OrderID)
}

func TestStripeParseWebhookFailed(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	payload := `{"id":"evt_2","object":"event","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_2","object":"payment_intent","metadata":{"orderId":"order-2"},"last_payment_error":{"message":"Your card was declined."}}}}`

	ev, err := g.ParseWebhook([]byte(payload), signedStripePayload(t, payload, testWebhookSecret))
	require.NoError(t, err)

	assert.Equal(t, PaymentFailed, ev.Outcome)
	assert.Equal(t, "order-2", ev.OrderID)
	assert.Equal(t, "Your card was declined.", ev.ErrorMessage)
}

func TestStripeParseWebhookOtherType(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	payload := `{"id":"evt_3","object":"event","type":"charge.refunded","data":{"object":{"id":"ch_1","object":"charge"}}}`

	ev, err := g.ParseWebhook([]byte(payload), signedStripePayload(t, payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, PaymentOther, ev.Outcome)
	assert.Empty(t, ev.OrderID)
}

func TestStripeParseWebhookRejectsBadSignature(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	payload := `{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","object":"payment_intent"}}}`

	_, err := g.ParseWebhook([]byte(payload), signedStripePayload(t, payload, "whsec_other"))
	assert.True(t, errors.Is(err, ErrInvalidSignature))

	_, err = g.ParseWebhook([]byte(payload), "")
	assert.True(t, errors.Is(err, ErrInvalidSignature))
}

func TestStripeParseWebhookWithoutSecretFailsClosed(t *testing.T) {
	g := NewStripeGateway("sk_test", "")
	payload := `{"id":"evt_1","object":"event","type":"payment_intent.succeeded"}`

	_, err := g.ParseWebhook([]byte(payload), signedStripePayload(t, payload, ""))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
