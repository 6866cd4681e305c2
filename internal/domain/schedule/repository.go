package schedule

import (
	"context"

	"github.com/barbierimoderni/booking-api/internal/models"
)

// ShopBarberID marks shop-wide rows in the closure tables.
const ShopBarberID uint = 0

// AutomationIdentity is the created_by value stamped on closures written by
// the daily regeneration batch. Removing one of those leaves a tombstone.
const AutomationIdentity = "daily-update"

// Repository is the persistence surface the availability engine and the
// closure use cases depend on. The gorm implementation lives in
// internal/infra/repository.
type Repository interface {
	// -------- Barber --------
	GetBarberByID(
		ctx context.Context,
		id uint,
	) (*models.Barber, error)

	GetBarberByEmail(
		ctx context.Context,
		email string,
	) (*models.Barber, error)

	ListActiveBarbers(
		ctx context.Context,
	) ([]models.Barber, error)

	// -------- Closure store (queries) --------
	IsShopClosed(
		ctx context.Context,
		date string,
	) (bool, error)

	// IsBarberClosed with slot == "" asks about the whole day: true when the
	// shop is closed, a full closure exists, or both halves are closed.
	// With a slot, only the matching half is considered.
	IsBarberClosed(
		ctx context.Context,
		barberID uint,
		date string,
		slot string,
	) (bool, error)

	IsBarberRecurringClosed(
		ctx context.Context,
		barberID uint,
		date string,
	) (bool, error)

	ListDateClosures(
		ctx context.Context,
		barberID uint,
		date string,
	) ([]models.DateClosure, error)

	// -------- Closure store (writes) --------
	FindDateClosure(
		ctx context.Context,
		barberID uint,
		date string,
		closureType string,
	) (*models.DateClosure, error)

	AddDateClosure(
		ctx context.Context,
		closure *models.DateClosure,
	) error

	DeleteDateClosure(
		ctx context.Context,
		id uint,
	) error

	AddRemovedAutoClosure(
		ctx context.Context,
		tombstone *models.RemovedAutoClosure,
	) error

	HasRemovedAutoClosure(
		ctx context.Context,
		barberID uint,
		date string,
		closureType string,
	) (bool, error)

	// -------- Recurring closures --------
	GetRecurringDays(
		ctx context.Context,
		barberID uint,
	) ([]int, error)

	ReplaceRecurringDays(
		ctx context.Context,
		barberID uint,
		days []int,
	) error

	// -------- Overrides --------
	// GetOverride returns (nil, nil) when no override row exists.
	GetOverride(
		ctx context.Context,
		barberID uint,
		date string,
	) (*models.BarberSchedule, error)

	SaveOverride(
		ctx context.Context,
		override *models.BarberSchedule,
	) error
}

// BookedInterval is the slice of a booking the engine cares about.
type BookedInterval struct {
	Time        string
	DurationMin int
}

// BookingLedger is the read side of the booking store the engine consumes.
type BookingLedger interface {
	ListActiveBookings(
		ctx context.Context,
		barberID uint,
		date string,
	) ([]BookedInterval, error)
}
