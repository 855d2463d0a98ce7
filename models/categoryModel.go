package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID          string      `json:"id" gorm:"primaryKey;size:36"`
	Name        string      `json:"name" gorm:"size:255;not null"`
	Slug        string      `json:"slug" gorm:"size:255;index"`
	Description string      `json:"description" gorm:"type:text"`
	Icon        string      `json:"icon" gorm:"size:255"`
	Image       string      `json:"image" gorm:"size:512"`
	ParentID    *string     `json:"parentId" gorm:"size:36;index"`
	Children    []*Category `json:"children" gorm:"-"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type CategoryInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *string `json:"parentId"`
	Image       string  `json:"image"`
	Icon        string  `json:"icon"`
}
