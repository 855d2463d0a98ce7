// Package events publishes order lifecycle events to the message broker.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderCreated       = "order.created"
	OrderPaid          = "order.paid"
	OrderPaymentFailed = "order.payment_failed"
	OrderRefunded      = "order.refunded"
	OrderDelivered     = "order.delivered"
	OrderStatusChanged = "order.status_changed"
	StockOversold      = "stock.oversold"
)

// Publisher delivers an event payload keyed by key (usually the order id).
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

type OrderCreatedEvent struct {
	OrderID       string          `json:"orderId"`
	UserID        string          `json:"userId"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	PromotionCode string          `json:"promotionCode,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type OrderPaidEvent struct {
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	PaymentID string    `json:"paymentId"`
	Provider  string    `json:"provider"`
	PaidAt    time.Time `json:"paidAt"`
}

type OrderPaymentFailedEvent struct {
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

type OrderRefundedEvent struct {
	OrderID   string          `json:"orderId"`
	PaymentID string          `json:"paymentId"`
	RefundID  string          `json:"refundId"`
	Amount    decimal.Decimal `json:"amount"`
	Partial   bool            `json:"partial"`
}

type OrderStatusChangedEvent struct {
	OrderID string `json:"orderId"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type StockOversoldEvent struct {
	OrderID   string `json:"orderId"`
	ProductID string `json:"productId"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// NopPublisher discards every event. Used when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) error {
	return nil
}
