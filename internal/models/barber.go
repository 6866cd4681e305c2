package models

import "time"

type Barber struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Email string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`

	PasswordHash string `gorm:"size:255" json:"-"`
	Role         string `gorm:"size:20;default:'barber'" json:"role"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
