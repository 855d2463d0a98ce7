package services

import (
	"context"
	"time"

	"github.com/Kariqs/satshop-api/gateways"
	"github.com/Kariqs/satshop-api/utils"
)

type PaymentProcessor interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency, orderID string) (*gateways.PaymentIntent, error)
	Refund(ctx context.Context, paymentID string, amount int64, reason string) (*gateways.Refund, error)
}

type CheckoutProvider interface {
	CreateCheckout(ctx context.Context, req gateways.CheckoutRequest) (*gateways.Checkout, error)
}

type WebhookParser interface {
	ParseWebhook(payload []byte, signature string) (*gateways.PaymentEvent, error)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Mailer interface {
	SendEmail(to, subject string, data utils.EmailData, templateName string) error
}
