package models

import "time"

// Booking keeps a snapshot of the service name, price and duration taken at
// creation time. Changing a service later must not rewrite history.
type Booking struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PublicCode string `gorm:"size:36;uniqueIndex" json:"public_code"`

	BarberID uint   `gorm:"index:idx_bookings_barber_date" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber"`

	Date string `gorm:"size:10;index:idx_bookings_barber_date" json:"date"`
	Time string `gorm:"size:5" json:"time"`

	ServiceID    uint    `json:"service_id"`
	ServiceName  string  `gorm:"size:100" json:"service_name"`
	ServicePrice float64 `json:"service_price"`
	DurationMin  int     `json:"duration_min"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerPhone string `gorm:"size:20;not null" json:"customer_phone"`
	CustomerEmail string `gorm:"size:100" json:"customer_email"`
	Notes         string `gorm:"size:255" json:"notes"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
