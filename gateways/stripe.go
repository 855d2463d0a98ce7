package gateways

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/webhook"
)

const orderIDMetadataKey = "orderId"

type StripeGateway struct {
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{webhookSecret: webhookSecret}
}

// CreatePaymentIntent creates an intent for amount minor units tagged with orderID.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency, orderID string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	params.AddMetadata(orderIDMetadataKey, orderID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent: %w", err)
	}
	return &PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// Refund refunds paymentID. A zero amount refunds the full charge.
func (g *StripeGateway) Refund(ctx context.Context, paymentID string, amount int64, reason string) (*Refund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentID),
		Reason:        stripe.String(reason),
	}
	if amount > 0 {
		params.Amount = stripe.Int64(amount)
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe refund: %w", err)
	}
	return &Refund{ID: r.ID, Amount: r.Amount, Status: string(r.Status)}, nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes payment intent events.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*PaymentEvent, error) {
	if g.webhookSecret == "" {
		return nil, ErrInvalidSignature
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	ev := &PaymentEvent{
		ID:       event.ID,
		Provider: ProviderStripe,
		Type:     string(event.Type),
		Outcome:  PaymentOther,
	}

	switch ev.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent: %w", err)
		}
		ev.PaymentID = pi.ID
		ev.OrderID = pi.Metadata[orderIDMetadataKey]
		if ev.Type == "payment_intent.succeeded" {
			ev.Outcome = PaymentSucceeded
		} else {
			ev.Outcome = PaymentFailed
			if pi.LastPaymentError != nil {
				ev.ErrorMessage = pi.LastPaymentError.Msg
			}
		}
	}

	return ev, nil
}
