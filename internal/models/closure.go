package models

import "time"

// BarberID 0 means the closure applies shop-wide.

// RecurringClosure stores one closed weekday for a barber (or the shop).
// The whole set for a barber is replaced on save, never patched.
type RecurringClosure struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID uint `gorm:"uniqueIndex:idx_recurring_barber_weekday" json:"barber_id"`
	Weekday  int  `gorm:"uniqueIndex:idx_recurring_barber_weekday" json:"weekday"`

	CreatedAt time.Time `json:"created_at"`
}

// DateClosure is a one-off closure for a specific date, whole day or half day.
type DateClosure struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID uint   `gorm:"uniqueIndex:idx_closure_barber_date_type" json:"barber_id"`
	Date     string `gorm:"size:10;uniqueIndex:idx_closure_barber_date_type" json:"date"`
	Type     string `gorm:"size:10;uniqueIndex:idx_closure_barber_date_type" json:"type"`

	Reason    string `gorm:"size:255" json:"reason"`
	CreatedBy string `gorm:"size:100" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
}

// RemovedAutoClosure records that an automation-created closure was manually
// removed by staff. It only suppresses regeneration; it never opens or closes
// anything by itself.
type RemovedAutoClosure struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID uint   `gorm:"uniqueIndex:idx_removed_barber_date_type" json:"barber_id"`
	Date     string `gorm:"size:10;uniqueIndex:idx_removed_barber_date_type" json:"date"`
	Type     string `gorm:"size:10;uniqueIndex:idx_removed_barber_date_type" json:"type"`

	RemovedBy string `gorm:"size:100" json:"removed_by"`

	CreatedAt time.Time `json:"created_at"`
}
