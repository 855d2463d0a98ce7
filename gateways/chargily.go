package gateways

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type ChargilyConfig struct {
	BaseURL    string
	SecretKey  string
	SuccessURL string
	FailureURL string
	WebhookURL string
	Timeout    time.Duration
}

// ChargilyGateway creates Chargily Pay v2 hosted checkouts and verifies their webhooks.
type ChargilyGateway struct {
	client *resty.Client
	cfg    ChargilyConfig
}

func NewChargilyGateway(cfg ChargilyConfig) *ChargilyGateway {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.SecretKey).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &ChargilyGateway{client: client, cfg: cfg}
}

func (g *ChargilyGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	successURL := req.SuccessURL
	if successURL == "" {
		successURL = g.cfg.SuccessURL
	}
	failureURL := req.FailureURL
	if failureURL == "" {
		failureURL = g.cfg.FailureURL
	}

	body := map[string]any{
		"amount":      req.Amount,
		"currency":    req.Currency,
		"success_url": successURL,
		"description": req.Description,
		"locale":      "fr",
		"metadata": map[string]string{
			orderIDMetadataKey: req.OrderID,
		},
	}
	if failureURL != "" {
		body["failure_url"] = failureURL
	}
	if g.cfg.WebhookURL != "" {
		body["webhook_endpoint"] = g.cfg.WebhookURL
	}

	var checkout Checkout
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&checkout).
		Post("/checkouts")
	if err != nil {
		return nil, fmt.Errorf("chargily checkout request: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("chargily checkout failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	if checkout.ID == "" || checkout.CheckoutURL == "" {
		return nil, fmt.Errorf("incomplete checkout response from chargily: %s", string(resp.Body()))
	}

	return &checkout, nil
}

type chargilyEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		ID       string          `json:"id"`
		Status   string          `json:"status"`
		Metadata json.RawMessage `json:"metadata"`
	} `json:"data"`
}

// ParseWebhook checks the hex HMAC-SHA256 of payload carried in the signature
// header and decodes checkout events.
func (g *ChargilyGateway) ParseWebhook(payload []byte, signature string) (*PaymentEvent, error) {
	if g.cfg.SecretKey == "" || signature == "" {
		return nil, ErrInvalidSignature
	}

	expected := SignChargilyPayload(payload, g.cfg.SecretKey)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, ErrInvalidSignature
	}

	var raw chargilyEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode chargily event: %w", err)
	}

	ev := &PaymentEvent{
		ID:        raw.ID,
		Provider:  ProviderChargily,
		Type:      raw.Type,
		Outcome:   PaymentOther,
		PaymentID: raw.Data.ID,
		OrderID:   chargilyOrderID(raw.Data.Metadata),
	}

	switch raw.Type {
	case "checkout.paid":
		ev.Outcome = PaymentSucceeded
	case "checkout.failed", "checkout.canceled", "checkout.expired":
		ev.Outcome = PaymentFailed
		ev.ErrorMessage = "checkout " + raw.Data.Status
	}

	return ev, nil
}

// SignChargilyPayload returns the signature Chargily sends for payload.
func SignChargilyPayload(payload []byte, secretKey string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Metadata is echoed back either as an object or as a one-element array.
func chargilyOrderID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		return stringValue(obj[orderIDMetadataKey])
	}

	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, m := range list {
			if id := stringValue(m[orderIDMetadataKey]); id != "" {
				return id
			}
		}
	}
	return ""
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
