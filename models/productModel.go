package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func init() {
	// prices travel as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          string                      `json:"id" gorm:"primaryKey;size:36"`
	Name        string                      `json:"name" gorm:"size:255;not null"`
	Description string                      `json:"description" gorm:"type:text"`
	Price       decimal.Decimal             `json:"price" gorm:"type:decimal(12,2);not null"`
	Stock       int                         `json:"stock" gorm:"not null;default:0"`
	CategoryID  string                      `json:"categoryId" gorm:"size:36;index"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	PaymentLink string                      `json:"paymentLink" gorm:"size:512"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[string]{}
	}
	return nil
}

type ProductInput struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	CategoryID  string           `json:"categoryId"`
	Images      []string         `json:"images"`
	PaymentLink string           `json:"paymentLink"`
}

type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	ProductID string    `json:"productId" gorm:"size:36;index;not null"`
	UserID    string    `json:"userId" gorm:"size:36;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
