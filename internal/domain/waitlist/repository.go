package waitlist

import (
	"context"
	"time"

	"github.com/barbierimoderni/booking-api/internal/models"
)

// ===============================
// Waitlist Status
// ===============================

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusNotified Status = "notified"
	StatusExpired  Status = "expired"
	StatusBooked   Status = "booked"
)

type Repository interface {
	Add(
		ctx context.Context,
		entry *models.WaitlistEntry,
	) error

	// TopWaiting returns (nil, nil) when nobody is queued.
	TopWaiting(
		ctx context.Context,
		barberID uint,
		date string,
	) (*models.WaitlistEntry, error)

	Update(
		ctx context.Context,
		entry *models.WaitlistEntry,
	) error

	ListByDate(
		ctx context.Context,
		barberID uint,
		date string,
	) ([]models.WaitlistEntry, error)

	ListExpiredOffers(
		ctx context.Context,
		now time.Time,
	) ([]models.WaitlistEntry, error)
}
