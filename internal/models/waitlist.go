package models

import "time"

type WaitlistEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID uint   `gorm:"index:idx_waitlist_barber_date" json:"barber_id"`
	Date     string `gorm:"size:10;index:idx_waitlist_barber_date" json:"date"`

	ServiceID uint `json:"service_id"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerPhone string `gorm:"size:20;not null" json:"customer_phone"`
	CustomerEmail string `gorm:"size:100" json:"customer_email"`

	Position int    `json:"position"`
	Status   string `gorm:"size:20;default:'waiting'" json:"status"`

	OfferToken     string     `gorm:"size:36" json:"-"`
	OfferExpiresAt *time.Time `json:"offer_expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
