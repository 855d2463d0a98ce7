package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Promotion struct {
	ID            string          `json:"id" gorm:"primaryKey;size:36"`
	Code          string          `json:"code" gorm:"size:64;uniqueIndex;not null"`
	DiscountType  string          `json:"discountType" gorm:"size:16;not null"`
	DiscountValue decimal.Decimal `json:"discountValue" gorm:"type:decimal(12,2);not null"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	MinPurchase   decimal.Decimal `json:"minPurchase" gorm:"type:decimal(12,2)"`
	// 0 means unlimited
	MaxUses     int       `json:"maxUses"`
	CurrentUses int       `json:"currentUses"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Promotion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type PromotionInput struct {
	Code          string          `json:"code" binding:"required"`
	DiscountType  string          `json:"discountType" binding:"required"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	MinPurchase   decimal.Decimal `json:"minPurchase"`
	MaxUses       int             `json:"maxUses"`
}
