package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is one line of a user's cart. Price and name are copied from the
// product when the line is first added.
type CartItem struct {
	ID        string          `json:"-" gorm:"primaryKey;size:36"`
	UserID    string          `json:"-" gorm:"size:36;not null;uniqueIndex:idx_cart_user_product"`
	ProductID string          `json:"productId" gorm:"size:36;not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	Name      string          `json:"name" gorm:"size:255"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
