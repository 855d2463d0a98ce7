package gateways

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargilyCreateCheckout(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkouts", r.URL.Path)
		assert.Equal(t, "Bearer test_sk", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"chk_1","checkout_url":"https://pay.chargily.net/checkout/chk_1","status":"pending"}`))
	}))
	defer server.Close()

	g := NewChargilyGateway(ChargilyConfig{BaseURL: server.URL, SecretKey: "test_sk", SuccessURL: "https://shop/success", WebhookURL: "https://api/webhook"})
	checkout, err := g.CreateCheckout(context.Background(), CheckoutRequest{OrderID: "order-1", Amount: 2500, Currency: "dzd"})
	require.NoError(t, err)

	assert.Equal(t, "chk_1", checkout.ID)
	assert.Equal(t, "https://pay.chargily.net/checkout/chk_1", checkout.CheckoutURL)
	assert.Equal(t, float64(2500), got["amount"])
	assert.Equal(t, "dzd", got["currency"])
	assert.Equal(t, "https://shop/success", got["success_url"])
	assert.Equal(t, "https://api/webhook", got["webhook_endpoint"])
	assert.Equal(t, map[string]any{"orderId": "order-1"}, got["metadata"])
}

func TestChargilyCreateCheckoutError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"amount is too small"}`))
	}))
	defer server.Close()

	g := NewChargilyGateway(ChargilyConfig{BaseURL: server.URL, SecretKey: "test_sk"})
	_, err := g.CreateCheckout(context.Background(), CheckoutRequest{OrderID: "o", Amount: 10, Currency: "dzd"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestChargilyParseWebhook(t *testing.T) {
	g := NewChargilyGateway(ChargilyConfig{SecretKey: "test_sk"})
	payload := []byte(`{"id":"evt_c1","type":"checkout.paid","data":{"id":"chk_1","status":"paid","metadata":{"orderId":"order-9"}}}`)

	ev, err := g.ParseWebhook(payload, SignChargilyPayload(payload, "test_sk"))
	require.NoError(t, err)

	assert.Equal(t, "evt_c1", ev.ID)
	assert.Equal(t, ProviderChargily, ev.Provider)
	assert.Equal(t, PaymentSucceeded, ev.Outcome)
	assert.Equal(t, "chk_1", ev.PaymentID)
	assert.Equal(t, "order-9", ev.OrderID)
}

func TestChargilyParseWebhookFailedWithListMetadata(t *testing.T) {
	g := NewChargilyGateway(ChargilyConfig{SecretKey: "test_sk"})
	payload := []byte(`{"id":"evt_c2","type":"checkout.failed","data":{"id":"chk_2","status":"failed","metadata":[{"orderId":"order-3"}]}}`)

	ev, err := g.ParseWebhook(payload, SignChargilyPayload(payload, "test_sk"))
	require.NoError(t, err)
	assert.Equal(t, PaymentFailed, ev.Outcome)
	assert.Equal(t, "order-3", ev.OrderID)
	assert.Equal(t, "checkout failed", ev.ErrorMessage)
}

func TestChargilyParseWebhookRejectsBadSignature(t *testing.T) {
	g := NewChargilyGateway(ChargilyConfig{SecretKey: "test_sk"})
	payload := []byte(`{"id":"evt_c1","type":"checkout.paid","data":{"id":"chk_1"}}`)

	_, err := g.ParseWebhook(payload, SignChargilyPayload(payload, "other"))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = g.ParseWebhook(payload, "")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
