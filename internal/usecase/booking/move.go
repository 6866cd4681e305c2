package booking

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/barbierimoderni/booking-api/internal/audit"
	domain "github.com/barbierimoderni/booking-api/internal/domain/booking"
	"github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	"github.com/barbierimoderni/booking-api/internal/models"
)

type MoveBookingInput struct {
	BookingID uint

	NewDate string
	NewTime string

	// SwapWithID, when set, exchanges (date, time) with that booking
	// instead of moving into free space. NewDate/NewTime are ignored.
	SwapWithID uint

	ActorID *uint
}

type MoveBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMoveBooking(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *MoveBooking {
	return &MoveBooking{repo: repo, audit: auditDispatcher}
}

func (uc *MoveBooking) Execute(
	ctx context.Context,
	in MoveBookingInput,
) (*models.Booking, error) {

	if in.SwapWithID != 0 {
		if in.SwapWithID == in.BookingID {
			return nil, httperr.ErrBusiness("invalid_swap")
		}

		first, _, err := uc.repo.SwapBookingsChecked(ctx, in.BookingID, in.SwapWithID)
		if err != nil {
			return nil, mapMoveError(err)
		}

		uc.audit.Dispatch(audit.Event{
			ActorID:  in.ActorID,
			Action:   "booking_swapped",
			Entity:   "booking",
			EntityID: &first.ID,
			Metadata: map[string]any{"swap_with": in.SwapWithID},
		})

		return first, nil
	}

	if !schedule.IsValidDate(in.NewDate) {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if !schedule.IsValidSlot(in.NewTime) {
		return nil, httperr.ErrBusiness("invalid_time")
	}

	moved, err := uc.repo.MoveBookingChecked(ctx, in.BookingID, in.NewDate, in.NewTime)
	if err != nil {
		return nil, mapMoveError(err)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "booking_moved",
		Entity:   "booking",
		EntityID: &moved.ID,
		Metadata: map[string]any{"date": in.NewDate, "time": in.NewTime},
	})

	return moved, nil
}

func mapMoveError(err error) error {
	if httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness("time_conflict")
	}

	var be httperr.BusinessError
	if errors.As(err, &be) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness("booking_not_found")
	}

	return err
}
