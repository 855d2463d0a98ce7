package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const LogoSettingsKey = "logo"

type Slide struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	URL         string    `json:"url" gorm:"size:512;not null"`
	Title       string    `json:"title" gorm:"size:255"`
	Description string    `json:"description" gorm:"type:text"`
	Position    int       `json:"position" gorm:"index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *Slide) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// LogoSettings is stored as a single row keyed by LogoSettingsKey.
type LogoSettings struct {
	Key          string    `json:"-" gorm:"primaryKey;column:name;size:32"`
	Icon         string    `json:"icon" gorm:"size:64"`
	Text         string    `json:"text" gorm:"size:255"`
	Theme        string    `json:"theme" gorm:"size:16"`
	TextColor    string    `json:"textColor" gorm:"size:32"`
	GradientFrom string    `json:"gradientFrom" gorm:"size:32"`
	GradientTo   string    `json:"gradientTo" gorm:"size:32"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var DefaultLogo = LogoSettings{
	Key:          LogoSettingsKey,
	Icon:         "Tv",
	Text:         "SAT SHOP",
	Theme:        "gradient",
	TextColor:    "#ffffff",
	GradientFrom: "#6366f1",
	GradientTo:   "#a855f7",
}
