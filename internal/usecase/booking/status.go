package booking

import (
	"context"
	"time"

	"github.com/barbierimoderni/booking-api/internal/audit"
	domain "github.com/barbierimoderni/booking-api/internal/domain/booking"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	"github.com/barbierimoderni/booking-api/internal/models"
)

type ConfirmBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewConfirmBooking(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *ConfirmBooking {
	return &ConfirmBooking{repo: repo, audit: auditDispatcher}
}

func (uc *ConfirmBooking) Execute(
	ctx context.Context,
	bookingID uint,
	actorID *uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.Confirm(b, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "booking_confirmed",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}

type CompleteBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteBooking(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *CompleteBooking {
	return &CompleteBooking{repo: repo, audit: auditDispatcher}
}

func (uc *CompleteBooking) Execute(
	ctx context.Context,
	bookingID uint,
	actorID *uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.Complete(b, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "booking_completed",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
