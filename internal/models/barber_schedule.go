package models

import "time"

// BarberSchedule is a per-date override of the weekday template. Absence of a
// row means "use the default template for that weekday".
type BarberSchedule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID uint   `gorm:"uniqueIndex:idx_schedule_barber_date" json:"barber_id"`
	Date     string `gorm:"size:10;uniqueIndex:idx_schedule_barber_date" json:"date"`

	AvailableSlots   []string `gorm:"serializer:json" json:"available_slots"`
	UnavailableSlots []string `gorm:"serializer:json" json:"unavailable_slots"`

	DayOff bool `gorm:"default:false" json:"day_off"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
