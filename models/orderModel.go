package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OrderStatusPending           = "pending"
	OrderStatusPaid              = "paid"
	OrderStatusPaymentFailed     = "payment_failed"
	OrderStatusRefunded          = "refunded"
	OrderStatusPartiallyRefunded = "partially_refunded"
	OrderStatusProcessing        = "processing"
	OrderStatusCompleted         = "completed"
	OrderStatusCancelled         = "cancelled"
)

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusPaymentFailed,
	OrderStatusRefunded,
	OrderStatusPartiallyRefunded,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

const (
	PaymentMethodStripe   = "stripe"
	PaymentMethodChargily = "chargily"
)

type OrderItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name"`
}

type Order struct {
	ID              string                         `json:"id" gorm:"primaryKey;size:36"`
	UserID          string                         `json:"userId" gorm:"size:36;index;not null"`
	Items           datatypes.JSONSlice[OrderItem] `json:"items"`
	Subtotal        decimal.Decimal                `json:"subtotal" gorm:"type:decimal(12,2)"`
	Discount        decimal.Decimal                `json:"discount" gorm:"type:decimal(12,2)"`
	Total           decimal.Decimal                `json:"total" gorm:"type:decimal(12,2);not null"`
	PromotionCode   string                         `json:"promotionCode,omitempty" gorm:"size:64"`
	ShippingAddress datatypes.JSON                 `json:"shippingAddress"`
	PaymentMethod   string                         `json:"paymentMethod" gorm:"size:32"`
	Status          string                         `json:"status" gorm:"size:32;index;not null"`
	PaymentID       string                         `json:"paymentId,omitempty" gorm:"size:255;index"`
	PaymentError    string                         `json:"paymentError,omitempty" gorm:"type:text"`
	PaidAt          *time.Time                     `json:"paidAt,omitempty"`
	RefundID        string                         `json:"refundId,omitempty" gorm:"size:255"`
	RefundedAmount  decimal.Decimal                `json:"refundedAmount" gorm:"type:decimal(12,2)"`
	RefundedAt      *time.Time                     `json:"refundedAt,omitempty"`
	Delivered       bool                           `json:"delivered"`
	DeliveredAt     *time.Time                     `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time                      `json:"createdAt"`
	UpdatedAt       time.Time                      `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// ProcessedEvent records a payment processor event id once it has been applied.
type ProcessedEvent struct {
	EventID     string    `json:"eventId" gorm:"primaryKey;size:255"`
	Provider    string    `json:"provider" gorm:"size:32;not null"`
	EventType   string    `json:"eventType" gorm:"size:128"`
	OrderID     string    `json:"orderId" gorm:"size:36;index"`
	ProcessedAt time.Time `json:"processedAt"`
}
