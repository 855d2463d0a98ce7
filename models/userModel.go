package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID                 string    `json:"uid" gorm:"primaryKey;size:36"`
	Email              string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	DisplayName        string    `json:"displayName" gorm:"size:255"`
	Password           string    `json:"-" gorm:"size:255;not null"`
	Role               string    `json:"role" gorm:"size:32;not null"`
	PhoneNumber        string    `json:"phoneNumber" gorm:"size:64"`
	Address            string    `json:"address" gorm:"size:512"`
	PasswordResetToken string    `json:"-" gorm:"size:64;index"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type SignupData struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"displayName"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ProfileUpdate struct {
	DisplayName string `json:"displayName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}
