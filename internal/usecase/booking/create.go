package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/barbierimoderni/booking-api/internal/audit"
	domain "github.com/barbierimoderni/booking-api/internal/domain/booking"
	"github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/httperr"
	"github.com/barbierimoderni/booking-api/internal/models"
	"github.com/barbierimoderni/booking-api/internal/usecase/availability"
	"github.com/barbierimoderni/booking-api/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	BarberID  uint
	ServiceID uint

	Date string
	Time string

	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Notes         string

	ActorID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	schedule schedule.Repository
	resolve  *availability.ResolveSlots
	audit    *audit.Dispatcher
}

func NewCreateBooking(
	repo domain.Repository,
	scheduleRepo schedule.Repository,
	resolve *availability.ResolveSlots,
	auditDispatcher *audit.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		schedule: scheduleRepo,
		resolve:  resolve,
		audit:    auditDispatcher,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// 1. Input shape. Nothing touches the store before this passes.
	if !schedule.IsValidDate(in.Date) {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if !schedule.IsValidSlot(in.Time) {
		return nil, httperr.ErrBusiness("invalid_time")
	}
	if in.CustomerName == "" || !validators.IsValidPhone(in.CustomerPhone) {
		return nil, httperr.ErrBusiness("invalid_customer")
	}
	if in.CustomerEmail != "" && !validators.IsValidEmail(in.CustomerEmail) {
		return nil, httperr.ErrBusiness("invalid_email")
	}

	// 2. Barber
	barber, err := uc.schedule.GetBarberByID(ctx, in.BarberID)
	if err != nil || !barber.Active {
		return nil, httperr.ErrBusiness("barber_not_found")
	}

	// 3. Service snapshot
	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil || !service.Active {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	// 4. The requested slot must come out of the resolver as available.
	slots, err := uc.resolve.Execute(ctx, in.BarberID, in.Date)
	if err != nil {
		return nil, err
	}

	found := false
	for _, s := range slots {
		if s.Time == in.Time {
			if !s.Available {
				return nil, httperr.ErrBusiness("time_conflict")
			}
			found = true
			break
		}
	}
	if !found {
		return nil, httperr.ErrBusiness("slot_not_available")
	}

	// 5. Recheck-and-insert in one transaction.
	b := &models.Booking{
		PublicCode: uuid.NewString(),
		BarberID:   in.BarberID,
		Date:       in.Date,
		Time:       in.Time,

		ServiceID:    service.ID,
		ServiceName:  service.Name,
		ServicePrice: service.Price,
		DurationMin:  service.DurationMin,

		Status: string(domain.InitialStatus()),

		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: in.CustomerEmail,
		Notes:         in.Notes,
	}

	if err := uc.repo.CreateBookingChecked(ctx, b); err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrBusiness("time_conflict")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
