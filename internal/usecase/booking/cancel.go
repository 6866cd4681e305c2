package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/barbierimoderni/booking-api/internal/audit"
	domain "github.com/barbierimoderni/booking-api/internal/domain/booking"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	"github.com/barbierimoderni/booking-api/internal/models"
)

// SlotFreedNotifier is told when a cancellation frees a slot, so the
// waitlist can offer it to the next customer in line.
type SlotFreedNotifier interface {
	Execute(ctx context.Context, barberID uint, date string, freedTime string) error
}

type CancelBooking struct {
	repo     domain.Repository
	notifier SlotFreedNotifier
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewCancelBooking(
	repo domain.Repository,
	notifier SlotFreedNotifier,
	auditDispatcher *audit.Dispatcher,
	log *zap.Logger,
) *CancelBooking {
	return &CancelBooking{
		repo:     repo,
		notifier: notifier,
		audit:    auditDispatcher,
		log:      log,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	bookingID uint,
	actorID *uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.Cancel(b, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	// The slot is free; let the waitlist chase it. A notify failure must
	// not undo the cancellation.
	if err := uc.notifier.Execute(ctx, b.BarberID, b.Date, b.Time); err != nil {
		uc.log.Warn("waitlist notify failed",
			zap.Uint("booking_id", b.ID),
			zap.Error(err),
		)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
