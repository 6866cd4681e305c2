package booking

import (
	"context"

	"github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/models"
)

// Repository is the booking ledger. The *Checked methods run the overlap
// recheck and the write inside one transaction; they return
// httperr.ErrBusiness("time_conflict") when the slot was claimed in between.
type Repository interface {
	// -------- Service --------
	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	ListActiveServices(
		ctx context.Context,
	) ([]models.Service, error)

	// -------- Booking (create / conflict) --------
	CreateBookingChecked(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Booking (state change) --------
	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	GetBookingByPublicCode(
		ctx context.Context,
		code string,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Booking (move / swap) --------
	MoveBookingChecked(
		ctx context.Context,
		id uint,
		newDate string,
		newTime string,
	) (*models.Booking, error)

	SwapBookingsChecked(
		ctx context.Context,
		firstID uint,
		secondID uint,
	) (*models.Booking, *models.Booking, error)

	// -------- Listings --------
	ListActiveBookings(
		ctx context.Context,
		barberID uint,
		date string,
	) ([]schedule.BookedInterval, error)

	ListBookingsByDate(
		ctx context.Context,
		barberID uint,
		date string,
	) ([]models.Booking, error)

	ListBookingsByMonth(
		ctx context.Context,
		barberID uint,
		year int,
		month int,
	) ([]models.Booking, error)

	// -------- Admin purge --------
	PurgeCancelled(
		ctx context.Context,
		before string,
	) (int64, error)
}
